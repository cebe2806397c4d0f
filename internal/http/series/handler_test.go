package series_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
	"github.com/MrJamesThe3rd/covidwaw/internal/http/series"
)

type fakeService struct {
	calls   int
	got     export.Options
	records []covid.DailyRecord
	err     error
}

func (f *fakeService) Chart(_ context.Context, opts export.Options) (chart.Chart, error) {
	f.calls++
	f.got = opts

	if f.err != nil {
		return chart.Chart{}, f.err
	}

	return chart.Aggregate(f.records, opts.Window)
}

var today = time.Date(2022, time.July, 20, 0, 0, 0, 0, time.UTC)

func defaults() export.Options {
	return export.Options{Since: today.AddDate(0, 0, -30), Today: today, Window: 14}
}

func serve(t *testing.T, svc *fakeService, target string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/series", series.NewHandler(svc, defaults).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Get(t *testing.T) {
	svc := &fakeService{records: []covid.DailyRecord{
		{Day: today.AddDate(0, 0, -1), Positive: new(130), Daily: covid.Deltas{Positive: 30}},
		{Day: today, Positive: new(150), Daily: covid.Deltas{Positive: 20, Tests: new(3025)}},
	}}

	rec := serve(t, svc, "/series/?window=2&since=2022-07-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, 2, svc.got.Window)
	assert.Equal(t, "2022-07-01", svc.got.Since.Format(covid.DayLayout))
	assert.Equal(t, today, svc.got.Today)

	var body struct {
		Window   int `json:"window"`
		YAxisMax int `json:"y_axis_max"`
		Points   []struct {
			PositiveAverage int `json:"positive_average"`
		} `json:"points"`
		Table []struct {
			Day           string `json:"day"`
			Tests         *int   `json:"tests"`
			TotalPositive *int   `json:"total_positive"`
		} `json:"table"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 2, body.Window)
	assert.Equal(t, 120, body.YAxisMax)
	require.Len(t, body.Points, 1)
	assert.Equal(t, 25, body.Points[0].PositiveAverage)
	require.Len(t, body.Table, 2)
	assert.Equal(t, "2022-07-20", body.Table[1].Day)
	assert.Equal(t, 3025, *body.Table[1].Tests)
	assert.Equal(t, 150, *body.Table[1].TotalPositive)
}

func TestHandler_Get_DerivedTotalsOmitted(t *testing.T) {
	svc := &fakeService{records: []covid.DailyRecord{
		{Day: today, Positive: new(600), Deaths: new(6), Derived: true, Daily: covid.Deltas{Positive: 300, Deaths: 3}},
	}}

	rec := serve(t, svc, "/series/?window=1")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), `"positive":300`)
	assert.NotContains(t, rec.Body.String(), "total_positive")
	assert.NotContains(t, rec.Body.String(), "total_deaths")
}

func TestHandler_Get_WindowRejectedBeforeBuild(t *testing.T) {
	for _, target := range []string{"/series/?window=0", "/series/?window=-3"} {
		t.Run(target, func(t *testing.T) {
			svc := &fakeService{}

			rec := serve(t, svc, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestHandler_Get_Defaults(t *testing.T) {
	svc := &fakeService{}

	rec := serve(t, svc, "/series/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaults(), svc.got)
	assert.JSONEq(t, `{"window":14,"y_axis_max":100,"points":[],"table":[]}`, rec.Body.String())
}

func TestHandler_Get_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		wantCode int
	}{
		{name: "window not a number", target: "/series/?window=two", wantCode: http.StatusBadRequest},
		{name: "bad since", target: "/series/?since=yesterday", wantCode: http.StatusBadRequest},
		{name: "zero window", target: "/series/?window=0", wantCode: http.StatusBadRequest},
		{name: "before first bulletin", target: "/series/", err: covid.ErrBeforeFirstBulletin, wantCode: http.StatusBadRequest},
		{name: "build failure", target: "/series/", err: errors.New("format changed"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
