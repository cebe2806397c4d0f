package series

import (
	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

type seriesResponse struct {
	Window   int           `json:"window"`
	YAxisMax int           `json:"y_axis_max"`
	Points   []chart.Point `json:"points"`
	Table    []rowResponse `json:"table"`
}

type rowResponse struct {
	Day           string `json:"day"`
	Positive      int    `json:"positive"`
	Deaths        int    `json:"deaths"`
	Tests         *int   `json:"tests,omitempty"`
	TotalPositive *int   `json:"total_positive,omitempty"`
	TotalDeaths   *int   `json:"total_deaths,omitempty"`
}

func toResponse(c chart.Chart) seriesResponse {
	resp := seriesResponse{
		Window:   c.Window,
		YAxisMax: c.YAxisMax,
		Points:   c.Points,
		Table:    make([]rowResponse, 0, len(c.Table)),
	}

	if resp.Points == nil {
		resp.Points = []chart.Point{}
	}

	for _, rec := range c.Table {
		resp.Table = append(resp.Table, toRowResponse(rec))
	}

	return resp
}

func toRowResponse(rec covid.DailyRecord) rowResponse {
	positive, deaths := rec.Totals()

	return rowResponse{
		Day:           rec.Day.Format(covid.DayLayout),
		Positive:      rec.Daily.Positive,
		Deaths:        rec.Daily.Deaths,
		Tests:         rec.Daily.Tests,
		TotalPositive: positive,
		TotalDeaths:   deaths,
	}
}
