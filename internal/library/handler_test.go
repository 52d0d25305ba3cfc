package library

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"stagecast/internal/presenter"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T, repo *Repository) *chi.Mux {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewHandler(repo, log)

	r := chi.NewRouter()
	r.Get("/songs", h.ListSongs)
	r.Get("/songs/{song_id}", h.GetSong)
	r.Get("/schedule", h.GetActiveSchedule)
	return r
}

func TestHandler_GetSong(t *testing.T) {
	repo := NewRepository()
	repo.SetSong(presenter.Song{ID: "s1", Title: "Song One"})
	r := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/songs/s1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var song presenter.Song
	if err := json.NewDecoder(rec.Body).Decode(&song); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if song.Title != "Song One" {
		t.Errorf("unexpected song: %+v", song)
	}
}

func TestHandler_GetSong_not_found(t *testing.T) {
	r := newTestRouter(t, NewRepository())

	req := httptest.NewRequest(http.MethodGet, "/songs/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_GetActiveSchedule(t *testing.T) {
	repo := NewRepository()
	repo.SetSchedule(presenter.Schedule{ID: "sunday", Items: []presenter.Item{{ID: "i0", Kind: presenter.KindImage}}})
	repo.SetActiveSchedule("sunday")
	r := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var schedule presenter.Schedule
	if err := json.NewDecoder(rec.Body).Decode(&schedule); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if schedule.ID != "sunday" || len(schedule.Items) != 1 {
		t.Errorf("unexpected schedule: %+v", schedule)
	}
}

func TestHandler_GetActiveSchedule_none(t *testing.T) {
	r := newTestRouter(t, NewRepository())

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
