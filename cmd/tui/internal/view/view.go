package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// ReportService is what the screens need from the report pipeline.
type ReportService interface {
	Run(ctx context.Context, opts export.Options) (*export.Result, error)
	Chart(ctx context.Context, opts export.Options) (chart.Chart, error)
}

// Defaults returns the options from the configuration, evaluated on each
// call so that "today" is current.
type Defaults func() export.Options

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

const buildTimeout = 2 * time.Minute

// BuildCtx returns a context bounding one build of the series.
func BuildCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), buildTimeout)
}
