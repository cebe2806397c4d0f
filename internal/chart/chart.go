// Package chart derives the charted points and the summary table from a
// reconciled series.
package chart

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

const (
	// Retention is the number of most recent days kept in the report.
	Retention = 365
	// Headroom is added above the highest daily value to scale the y axis.
	Headroom = 100
)

var ErrInvalidWindow = errors.New("window must be at least 1 day")

// Point is one charted day.
type Point struct {
	Timestamp       int64 `json:"timestamp"`
	PositiveAverage int   `json:"positive_average"`
	Positive        int   `json:"positive"`
	Deaths          int   `json:"deaths"`
	Tests           *int  `json:"tests"`
}

// Chart is everything the report shows.
type Chart struct {
	Window   int                 `json:"window"`
	Points   []Point             `json:"points"`
	Table    []covid.DailyRecord `json:"-"`
	YAxisMax int                 `json:"y_axis_max"`
}

// Aggregate keeps the last Retention records, computes the trailing window
// average of daily positives and selects the last window records for the
// table. Days with fewer than window records behind them are not charted.
func Aggregate(records []covid.DailyRecord, window int) (Chart, error) {
	if window < 1 {
		return Chart{}, fmt.Errorf("%d: %w", window, ErrInvalidWindow)
	}

	if len(records) > Retention {
		records = records[len(records)-Retention:]
	}

	c := Chart{
		Window: window,
		Points: make([]Point, 0, max(len(records)-window+1, 0)),
		Table:  records[max(len(records)-window, 0):],
	}

	peak := 0
	sum := 0

	for i, rec := range records {
		sum += rec.Daily.Positive
		if i >= window {
			sum -= records[i-window].Daily.Positive
		}

		if i < window-1 {
			continue
		}

		peak = max(peak, rec.Daily.Positive)

		c.Points = append(c.Points, Point{
			Timestamp:       rec.Day.UnixMilli(),
			PositiveAverage: floorDiv(sum, window),
			Positive:        rec.Daily.Positive,
			Deaths:          rec.Daily.Deaths,
			Tests:           rec.Daily.Tests,
		})
	}

	c.YAxisMax = peak + Headroom

	return c, nil
}

// floorDiv rounds towards negative infinity, unlike the / operator.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
