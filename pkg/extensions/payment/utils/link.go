package utils

import (
	"fmt"
	"strings"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/speps/go-hashids/v2"
)

func linkHasher() (*hashids.HashID, error) {
	data := hashids.NewData()
	data.Salt = config.Config.Voucher.LinkSalt
	data.MinLength = 8
	return hashids.NewWithData(data)
}

// EncodeVoucherLinkToken 卡券ID编码为链接/二维码令牌
func EncodeVoucherLinkToken(voucherID uint) (string, error) {
	h, err := linkHasher()
	if err != nil {
		return "", err
	}
	return h.EncodeInt64([]int64{int64(voucherID)})
}

func DecodeVoucherLinkToken(token string) (uint, error) {
	h, err := linkHasher()
	if err != nil {
		return 0, err
	}
	ids, err := h.DecodeInt64WithError(token)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 || ids[0] <= 0 {
		return 0, fmt.Errorf("invalid voucher link token: %s", token)
	}
	return uint(ids[0]), nil
}

func VoucherLinkURL(token string) string {
	base := strings.TrimRight(config.Config.Voucher.LinkBaseURL, "/")
	return base + "/v/" + token
}
