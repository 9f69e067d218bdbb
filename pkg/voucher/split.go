package voucher

// SplitValue 把订单小计（分）按最大余数法摊到每张卡券上。
// 每份先取整除部分，余数从第一份起每份加一分，各份之和精确等于总额。
func SplitValue(total int64, parts int) []int64 {
	if parts <= 0 {
		return nil
	}

	base := total / int64(parts)
	remainder := total - base*int64(parts)

	values := make([]int64, parts)
	for i := range values {
		values[i] = base
		if int64(i) < remainder {
			values[i]++
		}
	}
	return values
}
