package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pazlcollab/pkg/sentinel"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Router builds the HTTP surface: the catalog API plus health and metrics.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/experts", h.listExperts)
		r.Get("/profile/{telegramID}", h.getProfile)
		r.Get("/expert/{recordID}", h.getExpert)
	})
	return r
}

type expertsPage struct {
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
	Total   int      `json:"total"`
	Pages   int      `json:"pages"`
	Experts []Expert `json:"experts"`
}

func (h *Handler) listExperts(w http.ResponseWriter, r *http.Request) {
	experts, err := h.svc.Experts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	q := r.URL.Query()
	lang, city, direction := q.Get("lang"), q.Get("city"), q.Get("direction")
	filtered := make([]Expert, 0, len(experts))
	for _, e := range experts {
		if e.matches(lang, city, direction) {
			filtered = append(filtered, e)
		}
	}

	page := intParam(q.Get("page"), 1)
	limit := intParam(q.Get("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := len(filtered)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	h.writeJSON(w, http.StatusOK, expertsPage{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		Experts: filtered[start:end],
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	expert, err := h.svc.ByTelegramID(r.Context(), chi.URLParam(r, "telegramID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, expert)
}

func (h *Handler) getExpert(w http.ResponseWriter, r *http.Request) {
	expert, err := h.svc.ByRecordID(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, expert)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	msg := "record store unavailable"
	if errors.Is(err, sentinel.ErrNotFound) {
		status = http.StatusNotFound
		msg = "not found"
	}
	if status >= 500 {
		h.log.Error("catalog request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
