// Package render writes the static HTML report.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

//go:embed template.html
var templateHTML string

var page = template.Must(template.New("report").Parse(templateHTML))

type row struct {
	Day           string
	Positive      int
	Deaths        int
	Tests         string
	TotalPositive string
	TotalDeaths   string
}

type view struct {
	Title     string
	Window    int
	Generated string
	Points    []chart.Point
	Rows      []row
	YAxisMax  int
}

// Renderer projects a chart onto the report template.
type Renderer struct {
	title string
	now   func() time.Time
}

func New(title string) *Renderer {
	return &Renderer{title: title, now: time.Now}
}

func (r *Renderer) Render(w io.Writer, c chart.Chart) error {
	v := view{
		Title:     r.title,
		Window:    c.Window,
		Generated: r.now().Format("2006-01-02 15:04"),
		Points:    c.Points,
		Rows:      make([]row, 0, len(c.Table)),
		YAxisMax:  c.YAxisMax,
	}

	if v.Points == nil {
		v.Points = []chart.Point{}
	}

	// Newest first, as the table is read top down.
	for i := len(c.Table) - 1; i >= 0; i-- {
		rec := c.Table[i]
		positive, deaths := rec.Totals()
		v.Rows = append(v.Rows, row{
			Day:           rec.Day.Format(covid.DayLayout),
			Positive:      rec.Daily.Positive,
			Deaths:        rec.Daily.Deaths,
			Tests:         optional(rec.Daily.Tests),
			TotalPositive: optional(positive),
			TotalDeaths:   optional(deaths),
		})
	}

	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	return nil
}

// WriteFile renders into path, replacing it atomically.
func (r *Renderer) WriteFile(path string, c chart.Chart) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, c); err != nil {
		return err
	}

	return archive.WriteFile(path, buf.Bytes())
}

func optional(n *int) string {
	if n == nil {
		return "–"
	}

	return strconv.Itoa(*n)
}
