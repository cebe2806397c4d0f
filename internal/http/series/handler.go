package series

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/covidwaw/internal/chart"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
)

type Service interface {
	Chart(ctx context.Context, opts export.Options) (chart.Chart, error)
}

type Handler struct {
	svc      Service
	defaults func() export.Options
}

// NewHandler serves the aggregated series. defaults is called on every
// request, so "today" follows the clock.
func NewHandler(svc Service, defaults func() export.Options) *Handler {
	return &Handler{svc: svc, defaults: defaults}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	opts := h.defaults()

	if s := r.URL.Query().Get("window"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "window must be a number", http.StatusBadRequest)
			return
		}

		if n < 1 {
			http.Error(w, chart.ErrInvalidWindow.Error(), http.StatusBadRequest)
			return
		}

		opts.Window = n
	}

	if s := r.URL.Query().Get("since"); s != "" {
		t, err := time.ParseInLocation(covid.DayLayout, s, opts.Today.Location())
		if err != nil {
			http.Error(w, "since must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		opts.Since = t
	}

	c, err := h.svc.Chart(r.Context(), opts)
	if err != nil {
		if errors.Is(err, chart.ErrInvalidWindow) || errors.Is(err, covid.ErrBeforeFirstBulletin) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to build series", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
