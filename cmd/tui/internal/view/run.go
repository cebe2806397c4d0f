package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
)

type runState int

const (
	runStateForm runState = iota
	runStateRunning
	runStateResult
)

// RunModel downloads missing documents and renders the report.
type RunModel struct {
	CommonModel
	svc      ReportService
	defaults Defaults

	state   runState
	err     error
	form    *huh.Form
	spinner spinner.Model
	result  *export.Result

	// Form bindings, shared across copies of the model.
	input *runInput
}

type runInput struct {
	since string
	fetch bool
}

func NewRunModel(svc ReportService, defaults Defaults) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := RunModel{
		svc:      svc,
		defaults: defaults,
		state:    runStateForm,
		spinner:  s,
		input:    &runInput{since: FormatDate(defaults().Since), fetch: true},
	}
	m.form = m.buildForm()

	return m
}

func (m RunModel) Title() string { return "Run Report" }

func (m RunModel) ShortHelp() string {
	switch m.state {
	case runStateResult:
		return "Esc: back to menu"
	case runStateRunning:
		return "Running..."
	}
	return "Esc: back | Enter: confirm"
}

func (m RunModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case runStateForm:
		return m.updateForm(msg)
	case runStateRunning:
		return m.updateRunning(msg)
	case runStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m RunModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	opts := m.defaults()
	opts.Fetch = m.input.fetch

	since, err := time.ParseInLocation(covid.DayLayout, m.input.since, opts.Today.Location())
	if err == nil {
		opts.Since = since
	}

	m.state = runStateRunning
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runCmd(opts))
}

func (m RunModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(runResultMsg); ok {
		m.state = runStateResult
		m.err = result.err
		m.result = result.res
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m RunModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m RunModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("since").
				Title("First day").
				Description("YYYY-MM-DD, not before " + FormatDate(covid.FirstBulletin)).
				Value(&m.input.since).
				Validate(func(s string) error {
					d, err := time.Parse(covid.DayLayout, s)
					if err != nil {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					if d.Before(covid.FirstBulletin) {
						return covid.ErrBeforeFirstBulletin
					}
					return nil
				}),
			huh.NewConfirm().
				Key("fetch").
				Title("Download missing documents?").
				Value(&m.input.fetch),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RunModel) View() string {
	switch m.state {
	case runStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case runStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Downloading documents and building the report...", m.spinner.View()),
		)

	case runStateResult:
		return m.viewResult()
	}

	return ""
}

func (m RunModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Report Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			summary(m.result),
		),
	)
}

func summary(res *export.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run:        %s\n", res.RunID)
	fmt.Fprintf(&b, "Downloaded: %d\n", res.Download.Fetched)
	fmt.Fprintf(&b, "Cached:     %d\n", res.Download.Cached)
	fmt.Fprintf(&b, "Skipped:    %d\n", res.Download.Skipped)
	fmt.Fprintf(&b, "Failed:     %d\n", res.Download.Failed)
	fmt.Fprintf(&b, "Days:       %d\n", res.Records)
	fmt.Fprintf(&b, "Output:     %s", res.Output)

	return b.String()
}

type runResultMsg struct {
	res *export.Result
	err error
}

func (m RunModel) runCmd(opts export.Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := BuildCtx()
		defer cancel()

		res, err := m.svc.Run(ctx, opts)
		return runResultMsg{res: res, err: err}
	}
}
