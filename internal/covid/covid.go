package covid

import "time"

// DailyRecord holds the counters known for one calendar day of the district.
// Cumulative counters are nil when the source for that day does not report them.
type DailyRecord struct {
	Day         time.Time
	Positive    *int
	Deaths      *int
	Quarantined *int
	Isolated    *int
	Recovered   *int
	Tests       *int
	Daily       Deltas
	// Derived is set when Positive or Deaths were filled in from daily
	// values. Such counters only anchor the next day's deltas and are not
	// district totals.
	Derived bool
}

// Totals returns the cumulative positive and deaths counters when the source
// reported them, nil otherwise.
func (r DailyRecord) Totals() (positive, deaths *int) {
	if r.Derived {
		return nil, nil
	}

	return r.Positive, r.Deaths
}

// Deltas are day-over-day changes. Positive and Deaths are always known once
// the record has been reconciled against its predecessor.
type Deltas struct {
	Positive    int
	Deaths      int
	Tests       *int
	Quarantined *int
	Isolated    *int
}

// DayLayout is the ISO date format used for cache file names and flags.
const DayLayout = "2006-01-02"

// Date returns midnight of the given calendar day in loc.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Truncate drops the time of day, keeping the location of t.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day(), t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// Days calls fn for every calendar day from since to until, both inclusive.
// Iteration stops at the first error, which is returned.
func Days(since, until time.Time, fn func(day time.Time) error) error {
	until = Truncate(until)

	for day := Truncate(since); !day.After(until); day = day.AddDate(0, 0, 1) {
		if err := fn(day); err != nil {
			return err
		}
	}

	return nil
}
