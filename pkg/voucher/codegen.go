package voucher

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// 兑换码字母表，去掉易混淆的0/O/1/I
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode 生成密码学随机的兑换码
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = 12
	}

	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// GeneratePIN 生成4位数字PIN
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
