package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

type rateLimitStatsPayload struct {
	Enabled             bool  `json:"enabled"`
	ActiveClients       int   `json:"activeClients"`
	TotalRecentRequests int   `json:"totalRecentRequests"`
	WindowMs            int64 `json:"windowMs"`
	MaxRequests         int   `json:"maxRequests"`
}

// AdminHandler exposes the rate limiter's operational surface.
type AdminHandler struct {
	limiter ports.RateLimiter
	log     *slog.Logger
}

func NewAdminHandler(limiter ports.RateLimiter, log *slog.Logger) *AdminHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AdminHandler{limiter: limiter, log: log}
}

func (h *AdminHandler) RateLimitStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.limiter.Stats(r.Context(), time.Now())
	if err != nil {
		h.log.Error("rate limit stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not read rate limit stats")
		return
	}

	writeJSON(w, http.StatusOK, rateLimitStatsPayload{
		Enabled:             stats.Enabled,
		ActiveClients:       stats.ActiveClients,
		TotalRecentRequests: stats.TotalRecentRequests,
		WindowMs:            stats.Window.Milliseconds(),
		MaxRequests:         stats.MaxRequests,
	})
}

func (h *AdminHandler) ResetClient(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	removed, err := h.limiter.ResetClient(r.Context(), key)
	if err != nil {
		h.log.Error("rate limit reset failed", "client", key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not reset client")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.limiter.ResetAll(r.Context()); err != nil {
		h.log.Error("rate limit reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not reset clients")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
