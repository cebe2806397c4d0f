package covid

import (
	"errors"
	"fmt"
	"time"
)

// Regime identifies the source format in effect for a given calendar day.
type Regime int

const (
	// RegimeBulletin days are published as PSSE Warszawa PDF bulletins.
	RegimeBulletin Regime = iota + 1
	// RegimeBlackout days have no usable source document.
	RegimeBlackout
	// RegimeMinistry days come from the gov.pl district CSV (first schema era).
	RegimeMinistry
	// RegimeArcGIS days come from the ArcGIS district CSV (second schema era).
	RegimeArcGIS
)

var ErrBeforeFirstBulletin = errors.New("no data available before the first bulletin")

func (r Regime) String() string {
	switch r {
	case RegimeBulletin:
		return "bulletin"
	case RegimeBlackout:
		return "blackout"
	case RegimeMinistry:
		return "ministry"
	case RegimeArcGIS:
		return "arcgis"
	}

	return fmt.Sprintf("regime(%d)", int(r))
}

// Extension is the cache file extension of documents in this regime.
func (r Regime) Extension() string {
	switch r {
	case RegimeBulletin:
		return ".pdf"
	case RegimeMinistry, RegimeArcGIS:
		return ".csv"
	}

	return ""
}

// Regime boundaries. Each is the first day of the era it names.
var (
	FirstBulletin = time.Date(2020, time.March, 16, 0, 0, 0, 0, time.UTC)
	FirstMinistry = time.Date(2020, time.November, 24, 0, 0, 0, 0, time.UTC)
	FirstArcGIS   = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// blackouts are the days without a usable source document. Some of them
// have an override in Overrides; the others are skipped.
var blackouts = []time.Time{
	time.Date(2020, time.November, 22, 0, 0, 0, 0, time.UTC),
	time.Date(2020, time.November, 23, 0, 0, 0, 0, time.UTC),
	time.Date(2021, time.October, 20, 0, 0, 0, 0, time.UTC),
}

// RegimeFor classifies a calendar day. It is the only place where regime
// boundaries are compared, so fetching and parsing always agree on a day.
func RegimeFor(day time.Time) (Regime, error) {
	d := civil(day)

	for _, b := range blackouts {
		if d.Equal(b) {
			return RegimeBlackout, nil
		}
	}

	switch {
	case d.Before(FirstBulletin):
		return 0, fmt.Errorf("%s: %w", day.Format(DayLayout), ErrBeforeFirstBulletin)
	case d.Before(blackouts[0]):
		return RegimeBulletin, nil
	case d.Before(FirstArcGIS):
		return RegimeMinistry, nil
	default:
		return RegimeArcGIS, nil
	}
}

// civil maps a day in any location onto the same calendar date in UTC.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
