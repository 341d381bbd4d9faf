package analytics

import "github.com/shopspring/decimal"

// roundFloat rounds v to the given number of decimal places, half away from zero.
func roundFloat(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
