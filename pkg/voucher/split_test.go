package voucher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitValueEven(t *testing.T) {
	values := SplitValue(30000, 3)
	require.Equal(t, []int64{10000, 10000, 10000}, values)
}

func TestSplitValueLargestRemainder(t *testing.T) {
	values := SplitValue(10000, 3)
	require.Equal(t, []int64{3334, 3333, 3333}, values)
}

func TestSplitValueSumsExactly(t *testing.T) {
	cases := []struct {
		total int64
		parts int
	}{
		{30000, 3},
		{10000, 3},
		{99999, 7},
		{1, 5},
		{0, 4},
	}

	for _, tc := range cases {
		values := SplitValue(tc.total, tc.parts)
		require.Len(t, values, tc.parts)

		var sum int64
		for _, v := range values {
			sum += v
		}
		require.Equal(t, tc.total, sum, "total=%d parts=%d", tc.total, tc.parts)

		// 任意两份相差不超过1分
		for _, v := range values {
			require.LessOrEqual(t, values[len(values)-1], v)
			require.LessOrEqual(t, v, values[0])
			require.LessOrEqual(t, values[0]-values[len(values)-1], int64(1))
		}
	}
}

func TestSplitValueInvalidParts(t *testing.T) {
	require.Nil(t, SplitValue(100, 0))
	require.Nil(t, SplitValue(100, -1))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(12)
	require.NoError(t, err)
	require.Len(t, code, 12)
	for _, r := range code {
		require.Contains(t, codeAlphabet, string(r))
	}

	// 长度非法时回退默认长度
	code, err = GenerateCode(0)
	require.NoError(t, err)
	require.Len(t, code, 12)
}

func TestGeneratePIN(t *testing.T) {
	pin, err := GeneratePIN()
	require.NoError(t, err)
	require.Len(t, pin, 4)
}
