package download

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

// bulletinNames are the file name spellings PSSE used over time. The first
// one that answers 200 wins.
var bulletinNames = []string{
	"KORONAWIRUS-komunikat-PPIS-%s.pdf",
	"KORONAWIRUS-Komunikat-PPIS-%s.pdf",
	"KORONAWIRUS-komunikat-PPIS--%s.pdf",
	"KORONAWIRUS-komunikat--PPIS-%s.pdf",
	"KORONAWIRUS-komunikat-PPIS-%s-.pdf",
	"KORONAWIRUS-komunikat-PPIS-%s-k.pdf",
}

func (s *Service) fetchBulletin(ctx context.Context, day time.Time) error {
	var lastErr error

	for _, name := range bulletinNames {
		url := s.sources.BulletinBaseURL + fmt.Sprintf(name, day.Format(covid.DayLayout))

		body, err := s.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		return s.store.Write(day, covid.RegimeBulletin, body)
	}

	return fmt.Errorf("bulletin: %w: %w", errNotPublished, lastErr)
}
