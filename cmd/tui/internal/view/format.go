package view

import (
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(covid.DayLayout)
}

// FormatCount formats an optional counter, "-" when unknown.
func FormatCount(n *int) string {
	if n == nil {
		return "-"
	}

	return strconv.Itoa(*n)
}
