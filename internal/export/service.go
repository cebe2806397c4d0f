package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
)

type Downloader interface {
	Download(ctx context.Context, since, today time.Time) (download.Summary, error)
}

type Builder interface {
	Build(ctx context.Context, since, today time.Time) ([]covid.DailyRecord, error)
}

type Renderer interface {
	WriteFile(path string, c chart.Chart) error
}

// Options select the days and the averaging window of one run.
type Options struct {
	Since  time.Time
	Today  time.Time
	Window int
	// Fetch downloads missing documents before building. Without it the
	// report is built from the archive alone.
	Fetch bool
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Download download.Summary
	Records  int
	Chart    chart.Chart
	Output   string
}

// Service handles the export of the daily report.
type Service struct {
	downloader Downloader
	builder    Builder
	renderer   Renderer
	output     string
}

// NewService creates a new export Service writing the report to output.
func NewService(downloader Downloader, builder Builder, renderer Renderer, output string) *Service {
	return &Service{
		downloader: downloader,
		builder:    builder,
		renderer:   renderer,
		output:     output,
	}
}

// Run downloads, builds, aggregates and renders the report.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{
		RunID:  uuid.NewString(),
		Output: s.output,
	}

	log := slog.With("run", res.RunID)
	log.Info("report run started", "since", opts.Since.Format(covid.DayLayout), "today", opts.Today.Format(covid.DayLayout), "window", opts.Window)

	if opts.Fetch {
		sum, err := s.downloader.Download(ctx, opts.Since, opts.Today)
		if err != nil {
			return nil, err
		}

		res.Download = sum
		log.Info("download finished", "fetched", sum.Fetched, "cached", sum.Cached, "failed", sum.Failed)
	}

	c, records, err := s.chart(ctx, opts)
	if err != nil {
		return nil, err
	}

	res.Chart = c
	res.Records = records

	if err := os.MkdirAll(filepath.Dir(s.output), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if err := s.renderer.WriteFile(s.output, c); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	log.Info("report written", "path", s.output, "records", records, "points", len(c.Points))

	return res, nil
}

// Chart builds the series from the archive and aggregates it, without
// downloading or rendering anything.
func (s *Service) Chart(ctx context.Context, opts Options) (chart.Chart, error) {
	c, _, err := s.chart(ctx, opts)
	return c, err
}

func (s *Service) chart(ctx context.Context, opts Options) (chart.Chart, int, error) {
	records, err := s.builder.Build(ctx, opts.Since, opts.Today)
	if err != nil {
		return chart.Chart{}, 0, err
	}

	c, err := chart.Aggregate(records, opts.Window)
	if err != nil {
		return chart.Chart{}, 0, fmt.Errorf("aggregating: %w", err)
	}

	return c, len(records), nil
}
