package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/config"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
	covidHttp "github.com/MrJamesThe3rd/covidwaw/internal/http"
	seriesHandler "github.com/MrJamesThe3rd/covidwaw/internal/http/series"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer"
	"github.com/MrJamesThe3rd/covidwaw/internal/logging"
	"github.com/MrJamesThe3rd/covidwaw/internal/render"
	"github.com/MrJamesThe3rd/covidwaw/internal/series"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	store, err := archive.New(cfg.Data.Dir)
	if err != nil {
		slog.Error("failed to open archive", "error", err)
		os.Exit(1)
	}

	var (
		downloadService = download.NewService(store, cfg.DownloadSources(), cfg.Sources.Timeout)
		builder         = series.NewBuilder(store, importer.NewService(cfg.Report.District))
		exportService   = export.NewService(downloadService, builder, render.New(cfg.App.Name), cfg.Data.Output)
	)

	seriesH := seriesHandler.NewHandler(exportService, func() export.Options {
		return export.Options{
			Since:  cfg.Since(),
			Today:  cfg.Today(),
			Window: cfg.Report.Window,
		}
	})

	router := covidHttp.New(seriesH, cfg.Data.Output)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
