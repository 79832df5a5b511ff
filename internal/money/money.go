// Package money provides fixed-precision handling for monetary values.
// Stored amounts are normalized to 2 decimal places; summation goes through
// decimal arithmetic so aggregates do not accumulate float artifacts.
package money

import "github.com/shopspring/decimal"

// Precision is the number of decimal places amounts are normalized to.
const Precision = 2

// Round normalizes an amount to the storage precision.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(Precision).Float64()
	return f
}

// Format renders an amount as its canonical 2-decimal string, e.g. "1200.50".
func Format(v float64) string {
	return decimal.NewFromFloat(v).Round(Precision).StringFixed(Precision)
}

// Parse converts a canonical amount string back to a float64.
func Parse(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// Sum adds amounts with decimal accumulation and rounds the result.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(Precision).Float64()
	return f
}
