// Package http exposes the latest pipeline outputs over a read-only JSON
// API. Rendering and visualization stay with the consumer; this surface only
// hands over the tables.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailetl/internal/errors"
)

// ResultsHandler handles result-retrieval HTTP requests.
type ResultsHandler struct {
	service *ResultsService
	logger  *slog.Logger
}

// NewResultsHandler creates a results handler.
func NewResultsHandler(service *ResultsService, logger *slog.Logger) *ResultsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "results_handler")),
	}
}

// Routes returns the results routes.
func (h *ResultsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/quality", h.GetQuality)
	r.Get("/gold/{table}", h.GetGoldTable)

	return r
}

// GetSummary handles GET /summary.
func (h *ResultsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.LatestSummary()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.Respond(w, r, summary)
}

// GetQuality handles GET /quality.
func (h *ResultsHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.LatestSummary()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.Respond(w, r, summary.Quality)
}

// GetGoldTable handles GET /gold/{table}.
func (h *ResultsHandler) GetGoldTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	tables, err := h.service.LatestTables()
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	switch table {
	case "countries":
		render.Respond(w, r, tables.Countries)
	case "periods":
		render.Respond(w, r, tables.Periods)
	case "products":
		render.Respond(w, r, tables.Products)
	case "segments":
		render.Respond(w, r, tables.Segments)
	default:
		render.Render(w, r, apierrors.NotFoundError("gold table "+table))
	}
}

func (h *ResultsHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNoRuns) {
		render.Render(w, r, apierrors.ErrNoResults)
		return
	}
	h.logger.Error("failed to load results", slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrInternalServer)
}
