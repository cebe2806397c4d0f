// Package series turns the archived documents into one continuous daily
// series of reconciled records.
package series

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

//go:generate mockgen -source=builder.go -destination=documents_mock.go -package=series

// Documents gives access to the stored document of a day. A day without a
// document yields archive.ErrNotFound.
type Documents interface {
	Open(day time.Time, regime covid.Regime) (io.ReadCloser, error)
}

// Importer parses a document of the given regime.
type Importer interface {
	Import(regime covid.Regime, day time.Time, r io.Reader) (*covid.DailyRecord, error)
}

type Builder struct {
	docs     Documents
	importer Importer
}

func NewBuilder(docs Documents, importer Importer) *Builder {
	return &Builder{
		docs:     docs,
		importer: importer,
	}
}

// Build walks every day from since to today and returns the reconciled
// series. Days without data are left out. The first record only serves as
// the baseline of the second and is not returned.
func (b *Builder) Build(ctx context.Context, since, today time.Time) ([]covid.DailyRecord, error) {
	var records []covid.DailyRecord

	err := covid.Days(since, today, func(day time.Time) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := b.record(day, today)
		if err != nil {
			return err
		}

		if rec == nil {
			return nil
		}

		if n := len(records); n > 0 {
			Reconcile(&records[n-1], rec)
		} else {
			seed(rec)
		}

		records = append(records, *rec)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building series: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	return records[1:], nil
}

// record resolves one day. A nil record with a nil error means the day is
// skipped.
func (b *Builder) record(day, today time.Time) (*covid.DailyRecord, error) {
	regime, err := covid.RegimeFor(day)
	if err != nil {
		return nil, err
	}

	if o, ok := covid.OverrideFor(day); ok {
		rec := o.Record(day)
		return &rec, nil
	}

	if regime == covid.RegimeBlackout {
		slog.Info("no data published, skipping day", "day", day.Format(covid.DayLayout))
		return nil, nil
	}

	r, err := b.docs.Open(day, regime)
	if errors.Is(err, archive.ErrNotFound) {
		if covid.SameDay(day, today) {
			slog.Debug("today's document not published yet", "day", day.Format(covid.DayLayout))
		} else {
			slog.Warn("document missing, skipping day", "day", day.Format(covid.DayLayout), "source", regime)
		}

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("opening document for %s: %w", day.Format(covid.DayLayout), err)
	}
	defer r.Close()

	rec, err := b.importer.Import(regime, day, r)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", day.Format(covid.DayLayout), err)
	}

	return rec, nil
}

// Reconcile fills in the cumulative counters cur lacks from prev and its own
// daily values, then derives the daily positive and deaths figures from the
// cumulative ones. Negative differences are source corrections and are kept.
// Filled in counters mark cur as derived.
func Reconcile(prev, cur *covid.DailyRecord) {
	if cur.Positive == nil || cur.Deaths == nil {
		cur.Derived = true
	}

	if cur.Positive == nil {
		cur.Positive = new(*prev.Positive + cur.Daily.Positive)
	}

	if cur.Deaths == nil {
		cur.Deaths = new(*prev.Deaths + cur.Daily.Deaths)
	}

	cur.Daily.Positive = *cur.Positive - *prev.Positive
	cur.Daily.Deaths = *cur.Deaths - *prev.Deaths
}

// seed gives the first record of a pass a baseline. Only differences between
// cumulative values are ever used, so any starting point works.
func seed(rec *covid.DailyRecord) {
	if rec.Positive == nil || rec.Deaths == nil {
		rec.Derived = true
	}

	if rec.Positive == nil {
		rec.Positive = new(rec.Daily.Positive)
	}

	if rec.Deaths == nil {
		rec.Deaths = new(rec.Daily.Deaths)
	}
}
