package utils

import "github.com/shopspring/decimal"

var Dec100 = decimal.NewFromInt(100)

// DecimalToMinor 网关金额（元）转最小货币单位（分）
func DecimalToMinor(v decimal.Decimal) int64 {
	return v.Mul(Dec100).Round(0).IntPart()
}

func MinorToDecimal(v int64) *decimal.Decimal {
	v2 := decimal.NewFromInt(v).Div(Dec100)
	return &v2
}
