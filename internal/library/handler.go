package library

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"stagecast/internal/presenter"

	"github.com/go-chi/chi/v5"
)

// Handler exposes read-only library endpoints used by operator consoles to
// bootstrap their item pickers.
type Handler struct {
	repo *Repository
	log  *slog.Logger
}

// NewHandler returns a Handler backed by repo.
func NewHandler(repo *Repository, log *slog.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// GetSong handles GET /songs/{song_id}.
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "song_id")
	if songID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	song, err := h.repo.GetSong(r.Context(), songID)
	if err != nil {
		if errors.Is(err, presenter.ErrSongNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.log.Error("get song failed", slog.String("song_id", songID), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.log, song)
}

// ListSongs handles GET /songs.
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, map[string]any{"song_ids": h.repo.ListSongIDs()})
}

// GetActiveSchedule handles GET /schedule.
func (h *Handler) GetActiveSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, ok := h.repo.GetActiveSchedule(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, h.log, schedule)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response failed", slog.String("error", err.Error()))
	}
}
