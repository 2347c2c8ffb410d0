package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPlatformFee(t *testing.T) {
	testCases := []struct {
		name          string
		total         int64
		feePercentage int64
		fee           int64
	}{
		{name: "rounds up above half", total: 2599, feePercentage: 10, fee: 260},
		{name: "rounds half up", total: 2585, feePercentage: 10, fee: 259},
		{name: "rounds down below half", total: 2584, feePercentage: 10, fee: 258},
		{name: "exact", total: 2500, feePercentage: 10, fee: 250},
		{name: "no fee", total: 2599, feePercentage: 0, fee: 0},
		{name: "empty", total: 0, feePercentage: 10, fee: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.fee, platformFee(tc.total, tc.feePercentage))
		})
	}
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(2599), toCents(decimal.RequireFromString("25.99")))
	assert.Equal(t, int64(1000), toCents(decimal.RequireFromString("10")))
	assert.Equal(t, int64(1001), toCents(decimal.RequireFromString("10.005")))
	assert.Equal(t, int64(0), toCents(decimal.Zero))
}
