package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
	covidHttp "github.com/MrJamesThe3rd/covidwaw/internal/http"
	"github.com/MrJamesThe3rd/covidwaw/internal/http/series"
)

type emptyService struct{}

func (emptyService) Chart(_ context.Context, opts export.Options) (chart.Chart, error) {
	return chart.Aggregate(nil, opts.Window)
}

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	dir := t.TempDir()
	handler := series.NewHandler(emptyService{}, func() export.Options {
		return export.Options{Today: time.Now(), Window: 14}
	})

	return covidHttp.New(handler, filepath.Join(dir, "index.html")), dir
}

func TestRouter_ServesReport(t *testing.T) {
	router, dir := newRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>raport</h1>"), 0o644))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "raport")
}

func TestRouter_DataDirectoryNotServed(t *testing.T) {
	router, dir := newRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>raport</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2022-07-18.csv"), []byte("powiat_miasto;zgony\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tui.log"), []byte("log"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cache"), 0o755))

	for _, target := range []string{"/2022-07-18.csv", "/tui.log", "/cache/"} {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestRouter_SeriesCORS(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/series/", nil)
	req.Header.Set("Origin", "https://example.org")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
