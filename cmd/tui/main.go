package main

import (
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/covidwaw/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/config"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer"
	"github.com/MrJamesThe3rd/covidwaw/internal/logging"
	"github.com/MrJamesThe3rd/covidwaw/internal/render"
	"github.com/MrJamesThe3rd/covidwaw/internal/series"
)

type model struct {
	exportService *export.Service
	defaults      view.Defaults
	title         string

	currentView View

	seriesView view.SeriesModel
	runView    view.RunModel
}

type View int

const (
	ViewMenu   View = 0
	ViewSeries View = 1
	ViewRun    View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := archive.New(cfg.Data.Dir)
	if err != nil {
		slog.Error("failed to open archive", "error", err)
		os.Exit(1)
	}

	// The terminal is owned by the TUI, so logs go to the archive directory.
	logFile, err := os.OpenFile(filepath.Join(store.Dir(), "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(logFile, cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	var (
		downloadService = download.NewService(store, cfg.DownloadSources(), cfg.Sources.Timeout)
		builder         = series.NewBuilder(store, importer.NewService(cfg.Report.District))
		exportService   = export.NewService(downloadService, builder, render.New(cfg.App.Name), cfg.Data.Output)
	)

	defaults := func() export.Options {
		return export.Options{
			Since:  cfg.Since(),
			Today:  cfg.Today(),
			Window: cfg.Report.Window,
		}
	}

	return model{
		exportService: exportService,
		defaults:      defaults,
		title:         cfg.App.Name,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSeries
				m.seriesView = view.NewSeriesModel(m.exportService, m.defaults)

				return m, m.seriesView.Init()
			case "2":
				m.currentView = ViewRun
				m.runView = view.NewRunModel(m.exportService, m.defaults)

				return m, m.runView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSeries:
		var newModel tea.Model
		newModel, cmd = m.seriesView.Update(msg)
		m.seriesView = newModel.(view.SeriesModel)
	case ViewRun:
		var newModel tea.Model
		newModel, cmd = m.runView.Update(msg)
		m.runView = newModel.(view.RunModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.title + "\n\n" +
				"1. Browse Daily Series\n" +
				"2. Run Report\n\n" +
				"q. Quit",
		)
	case ViewSeries:
		return m.seriesView.View()
	case ViewRun:
		return m.runView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
