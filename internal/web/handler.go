package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/callwatch/callwatch/internal/database"
	"github.com/callwatch/callwatch/internal/detector"
)

type Handler struct {
	repo *database.Repository
	det  *detector.Detector
}

func NewHandler(repo *database.Repository, det *detector.Detector) *Handler {
	return &Handler{repo: repo, det: det}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", h.handleStatus)
	mux.HandleFunc("GET /api/sources", h.handleSources)
	mux.HandleFunc("GET /api/events", h.handleEvents)
	mux.HandleFunc("POST /api/discard", h.handleDiscard)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.det.Status())
}

type sourceStatus struct {
	SourceKind string `json:"source_kind"`
	Enabled    bool   `json:"enabled"`
	Stat       any    `json:"stat,omitempty"`
}

func (h *Handler) handleSources(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.ListSourceStats()
	if err != nil {
		http.Error(w, "failed to list source stats", http.StatusInternalServerError)
		return
	}

	out := make([]sourceStatus, 0, len(stats))
	for _, stat := range stats {
		out = append(out, sourceStatus{
			SourceKind: stat.SourceKind,
			Enabled:    h.repo.SourceEnabled(stat.SourceKind),
			Stat:       stat,
		})
	}
	h.writeJSON(w, out)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	events, err := h.repo.GetEventsSince(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		http.Error(w, "failed to query events", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, events)
}

// handleDiscard is the discard affordance for headless setups: the
// same path a notification action takes.
func (h *Handler) handleDiscard(w http.ResponseWriter, r *http.Request) {
	h.det.RequestDiscard()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: failed to encode response: %v", err)
	}
}
