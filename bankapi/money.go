package bankapi

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseAmount turns user-typed text into a positive amount. A leading
// dollar sign is tolerated since the text comes straight from a form
// field.
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$"))
	if text == "" {
		return 0, errors.New("amount is required")
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, errors.Errorf("%q is not a valid amount", text)
	}
	if !d.IsPositive() {
		return 0, errors.New("amount must be greater than zero")
	}
	return d.InexactFloat64(), nil
}

// FormatAmount renders an amount the way receipts display it: "$250.00".
func FormatAmount(amount float64) string {
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}
