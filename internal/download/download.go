// Package download fills the archive with the source documents of each day.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var errNotPublished = errors.New("not published")

// Sources are the upstream locations of each regime's documents.
type Sources struct {
	BulletinBaseURL    string
	MinistryBaseURL    string
	MinistryArchiveURL string
	MinistryMainURL    string
	ArcGISArchiveURL   string
	ArcGISCurrentURL   string
}

// Summary counts what happened to each day of a pass.
type Summary struct {
	Fetched int
	Cached  int
	Skipped int
	Failed  int
}

type Service struct {
	store   *archive.Store
	client  *resty.Client
	sources Sources

	// Per-pass state, reset by Download.
	ministryArchive *ministryPage
	arcgisLoaded    bool
}

func NewService(store *archive.Store, sources Sources, timeout time.Duration) *Service {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(timeout)

	return &Service{
		store:   store,
		client:  client,
		sources: sources,
	}
}

// Download fetches every document missing from the archive between since and
// today. A day that cannot be fetched is logged and left out; only a day
// before the first bulletin stops the pass.
func (s *Service) Download(ctx context.Context, since, today time.Time) (Summary, error) {
	var sum Summary

	s.ministryArchive = nil
	s.arcgisLoaded = false

	err := covid.Days(since, today, func(day time.Time) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		regime, err := covid.RegimeFor(day)
		if err != nil {
			return err
		}

		if regime == covid.RegimeBlackout {
			sum.Skipped++
			return nil
		}

		if s.store.Has(day, regime) {
			sum.Cached++
			return nil
		}

		if err := s.fetch(ctx, day, today, regime); err != nil {
			sum.Failed++

			if covid.SameDay(day, today) {
				slog.Info("today's data is not available yet", "day", day.Format(covid.DayLayout), "source", regime, "error", err)
			} else {
				slog.Warn("could not download data", "day", day.Format(covid.DayLayout), "source", regime, "error", err)
			}

			return nil
		}

		sum.Fetched++

		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("downloading: %w", err)
	}

	return sum, nil
}

func (s *Service) fetch(ctx context.Context, day, today time.Time, regime covid.Regime) error {
	switch regime {
	case covid.RegimeBulletin:
		return s.fetchBulletin(ctx, day)
	case covid.RegimeMinistry:
		err := s.fetchMinistry(ctx, day)
		if err == nil {
			return nil
		}

		// The ArcGIS archive reaches back into the ministry era.
		if arcErr := s.fetchArcGIS(ctx, day, today, regime); arcErr != nil {
			return errors.Join(err, arcErr)
		}

		return nil
	case covid.RegimeArcGIS:
		return s.fetchArcGIS(ctx, day, today, regime)
	}

	return fmt.Errorf("nothing to download for %s regime", regime)
}

// get returns the body of url, failing on anything but 200 OK.
func (s *Service) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode(), url)
	}

	return resp.Body(), nil
}
