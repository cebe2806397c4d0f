package commands

import (
	"fmt"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer"
	"github.com/MrJamesThe3rd/covidwaw/internal/render"
	"github.com/MrJamesThe3rd/covidwaw/internal/series"
)

// newExportService wires the report pipeline from the loaded config.
func newExportService() (*export.Service, error) {
	store, err := archive.New(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var (
		downloadService = download.NewService(store, cfg.DownloadSources(), cfg.Sources.Timeout)
		importService   = importer.NewService(cfg.Report.District)
		builder         = series.NewBuilder(store, importService)
		renderer        = render.New(cfg.App.Name)
	)

	return export.NewService(downloadService, builder, renderer, cfg.Data.Output), nil
}

func options(fetch bool) export.Options {
	return export.Options{
		Since:  cfg.Since(),
		Today:  cfg.Today(),
		Window: cfg.Report.Window,
		Fetch:  fetch,
	}
}
