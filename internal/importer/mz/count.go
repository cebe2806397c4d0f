package mz

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseCount reads a counter published as a number that may carry a
// fractional part ("42.0") and rounds it down to an integer.
func parseCount(s string) (int, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}

	return int(d.Floor().IntPart()), nil
}
