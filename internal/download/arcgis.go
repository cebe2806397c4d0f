package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/encoding"
)

// arcgisMember matches the daily files inside the ArcGIS archive, e.g.
// "20210302083000_rap_rcb_pow_eksport.csv".
var arcgisMember = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2}).*\.csv$`)

func (s *Service) fetchArcGIS(ctx context.Context, day, today time.Time, regime covid.Regime) error {
	if covid.SameDay(day, today) {
		body, err := s.get(ctx, s.sources.ArcGISCurrentURL)
		if err != nil {
			return fmt.Errorf("arcgis current: %w", err)
		}

		data, err := encoding.FromWindows1250(body)
		if err != nil {
			return err
		}

		return s.store.Write(day, regime, data)
	}

	if !s.arcgisLoaded {
		if err := s.loadArcGISArchive(ctx); err != nil {
			return fmt.Errorf("arcgis archive: %w", err)
		}

		s.arcgisLoaded = true
	}

	if !s.store.Has(day, regime) {
		return fmt.Errorf("arcgis archive: %w", errNotPublished)
	}

	return nil
}

// loadArcGISArchive stores every daily file of the archive that is not
// cached yet. The archive is only downloaded once per pass.
func (s *Service) loadArcGISArchive(ctx context.Context) error {
	body, err := s.get(ctx, s.sources.ArcGISArchiveURL)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}

	stored := 0

	for _, f := range zr.File {
		m := arcgisMember.FindStringSubmatch(path.Base(f.Name))
		if m == nil {
			continue
		}

		day, err := time.Parse("20060102", m[1]+m[2]+m[3])
		if err != nil {
			continue
		}

		regime, err := covid.RegimeFor(day)
		if err != nil || regime.Extension() != ".csv" || s.store.Has(day, regime) {
			continue
		}

		data, err := readMember(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}

		if err := s.store.Write(day, regime, data); err != nil {
			return err
		}

		stored++
	}

	slog.Debug("arcgis archive loaded", "files", len(zr.File), "stored", stored)

	return nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening member: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading member: %w", err)
	}

	return encoding.FromWindows1250(raw)
}
