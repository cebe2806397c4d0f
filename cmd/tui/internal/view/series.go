package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
)

type seriesState int

const (
	seriesStateBrowse seriesState = iota
	seriesStateEdit
)

// SeriesModel browses the charted days of the series, newest first.
type SeriesModel struct {
	CommonModel
	svc      ReportService
	defaults Defaults

	state   seriesState
	table   table.Model
	chart   chart.Chart
	form    *huh.Form
	window  int
	loading bool
	err     error

	// Form binding, shared across copies of the model.
	formWindow *string
}

func NewSeriesModel(svc ReportService, defaults Defaults) SeriesModel {
	columns := []table.Column{
		{Title: "Day", Width: 12},
		{Title: "Average", Width: 10},
		{Title: "New cases", Width: 10},
		{Title: "Deaths", Width: 8},
		{Title: "Tests", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SeriesModel{
		svc:        svc,
		defaults:   defaults,
		table:      t,
		window:     defaults().Window,
		loading:    true,
		formWindow: new(""),
	}
}

func (m SeriesModel) Title() string { return "Daily Series" }
func (m SeriesModel) ShortHelp() string {
	if m.state == seriesStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | w: window | r: refresh"
}

func (m SeriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SeriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSeriesMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.chart = msg.chart
			m.refreshTable()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case seriesStateBrowse:
		return m.updateBrowse(msg)
	case seriesStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m SeriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "w":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SeriesModel) enterEditMode() (tea.Model, tea.Cmd) {
	*m.formWindow = strconv.Itoa(m.window)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("window").
				Title("Rolling average window (days)").
				Value(m.formWindow).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("window must be a positive number")
					}
					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = seriesStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m SeriesModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = seriesStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if n, err := strconv.Atoi(*m.formWindow); err == nil {
		m.window = n
	}

	m.state = seriesStateBrowse
	m.form = nil
	m.loading = true
	m.table.Focus()
	return m, m.loadCmd()
}

func (m SeriesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Building series...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"[w] Window: %s | Days charted: %d | Y axis: %d",
		activeStyle(strconv.Itoa(m.chart.Window)),
		len(m.chart.Points),
		m.chart.YAxisMax,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == seriesStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *SeriesModel) refreshTable() {
	points := m.chart.Points
	rows := make([]table.Row, 0, len(points))

	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		rows = append(rows, table.Row{
			FormatDate(time.UnixMilli(p.Timestamp).In(m.defaults().Today.Location())),
			strconv.Itoa(p.PositiveAverage),
			strconv.Itoa(p.Positive),
			strconv.Itoa(p.Deaths),
			FormatCount(p.Tests),
		})
	}

	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Messages

type loadSeriesMsg struct {
	chart chart.Chart
	err   error
}

func (m SeriesModel) loadCmd() tea.Cmd {
	opts := m.defaults()
	opts.Window = m.window

	return func() tea.Msg {
		ctx, cancel := BuildCtx()
		defer cancel()

		c, err := m.svc.Chart(ctx, opts)
		return loadSeriesMsg{chart: c, err: err}
	}
}
