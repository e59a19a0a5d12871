// Package web serves species pages, search grids and comparisons over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/render"
	"github.com/Shadojus/amorph/internal/service"
)

const (
	// maxBodyBytes bounds compare request bodies.
	maxBodyBytes = 1 << 20
	// healthTimeout bounds the store check behind /health.
	healthTimeout = 2 * time.Second
)

// Handler serves the HTTP API.
type Handler struct {
	engine  *engine.Engine
	species *service.SpeciesService
	compare *service.CompareService
	metrics *metrics.Collector
	ping    func(context.Context) error
	logger  *slog.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(eng *engine.Engine, species *service.SpeciesService, cmp *service.CompareService, m *metrics.Collector, logger *slog.Logger) *Handler {
	return &Handler{
		engine:  eng,
		species: species,
		compare: cmp,
		metrics: m,
		logger:  config.Component(logger, "web"),
	}
}

// SetHealthCheck makes /health report 503 while check fails.
func (h *Handler) SetHealthCheck(check func(context.Context) error) {
	h.ping = check
}

// Routes returns the router wrapped in the logging middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /species/{slug}", h.speciesPage)
	mux.HandleFunc("GET /search", h.search)
	mux.HandleFunc("POST /api/compare", h.compareSpecies)
	mux.HandleFunc("GET /api/palette", h.palette)
	mux.HandleFunc("GET /api/classify", h.classify)
	mux.HandleFunc("GET /metrics", h.stats)
	mux.HandleFunc("GET /assets/amorph.css", h.stylesheet)
	return LoggingMiddleware(h.logger, mux)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			h.writeError(w, r, http.StatusServiceUnavailable, "species store unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (h *Handler) speciesPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.species.Render(r.Context(), r.PathValue("slug"), r.URL.Query().Get("perspective"))
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, "species not found")
		return
	case errors.Is(err, service.ErrUnknownPerspective):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	writeDocument(w, page.Record.DisplayName(), page.Markup)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			h.writeError(w, r, http.StatusBadRequest, "limit must be 1-100")
			return
		}
		limit = n
	}
	grid, err := h.species.SearchGrid(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, grid)
		return
	}
	writeDocument(w, "Search", grid.Markup)
}

func (h *Handler) compareSpecies(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.compare.Compare(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrNoSelections), errors.Is(err, compare.ErrInvalidSelection):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, compare.ErrSelectionFull):
		h.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) palette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, compare.Palette)
}

// ClassifyResponse is the body of GET /api/classify.
type ClassifyResponse struct {
	Tag   string `json:"tag"`
	Label string `json:"label,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// classify treats value as JSON when it parses, else as a plain string.
func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("value")
	field := r.URL.Query().Get("field")
	var value any = raw
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		value = parsed
	}
	resp := ClassifyResponse{Tag: h.engine.Classify(value, field).String()}
	if field != "" {
		label := h.engine.Label(field)
		resp.Label, resp.Unit = label.Text, label.Unit
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

func (h *Handler) stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	fmt.Fprint(w, Stylesheet())
}

// Stylesheet returns the palette as CSS custom properties, in palette order,
// so client chrome colors entities exactly like the renderers do.
func Stylesheet() string {
	var b strings.Builder
	b.WriteString(":root {\n  --amorph-accent: " + compare.Palette[0] + ";\n")
	for i, c := range compare.Palette {
		fmt.Fprintf(&b, "  --amorph-entity-%d: %s;\n", i, c)
	}
	b.WriteString("}\n")
	b.WriteString(".amorph-enter { animation: amorph-enter 240ms ease-out; }\n")
	b.WriteString("@keyframes amorph-enter { from { opacity: 0; } to { opacity: 1; } }\n")
	return b.String()
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request error", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error":     msg,
		"requestId": RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.URL.Query().Get("format") == "json"
}

func writeDocument(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, Document(title, body, false))
}

// Document wraps body in an HTML page. With inline the stylesheet is
// embedded, so the page renders without a server.
func Document(title, body string, inline bool) string {
	style := `<link rel="stylesheet" href="/assets/amorph.css">`
	if inline {
		style = "<style>\n" + Stylesheet() + "</style>"
	}
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><title>` + render.Escape(title) + `</title>` +
		style + `</head><body>` + body + `</body></html>`
}
