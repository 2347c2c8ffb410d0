package checkout

import (
	"github.com/shopspring/decimal"
)

// toCents converts a price in major units to minor units, rounding half away from zero
func toCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// platformFee is the share of the total that the marketplace withholds. Exact halves round up,
// so 2599 cents at 10 percent gives 260 and 2585 cents gives 259.
func platformFee(totalInCents int64, feePercentage int64) int64 {
	return decimal.NewFromInt(totalInCents).
		Mul(decimal.NewFromInt(feePercentage)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
