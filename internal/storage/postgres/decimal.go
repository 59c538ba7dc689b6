package postgres

import "github.com/shopspring/decimal"

// decimalFromString parses a persisted price. Empty strings decode to zero
// so logs written before prices were mandatory stay readable.
func decimalFromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
