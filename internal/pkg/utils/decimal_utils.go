package utils

import "github.com/shopspring/decimal"

// MulAmountPrice multiplies a decimal-string token amount by a USD price,
// returning the USD value. Invalid or empty amounts resolve to 0 rather than
// erroring, mirroring the zero-on-no-data pricing policy.
func MulAmountPrice(amount string, priceUsd float64) float64 {
	if amount == "" || priceUsd == 0 {
		return 0
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0
	}
	v, _ := d.Mul(decimal.NewFromFloat(priceUsd)).Float64()
	return v
}
