package common

import "github.com/shopspring/decimal"

// DecimalToFixed rounds num to precision decimal places, half away from
// zero. Decimal arithmetic sidesteps binary-float artifacts at the rounding
// boundary (0.5 residues that float64 stores as 0.4999...).
func DecimalToFixed(num float64, precision int) float64 {
	return decimal.NewFromFloat(num).Round(int32(precision)).InexactFloat64()
}
