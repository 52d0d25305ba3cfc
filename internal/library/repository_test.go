package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stagecast/internal/presenter"
)

func TestRepository_GetSong(t *testing.T) {
	repo := NewRepository()
	repo.SetSong(presenter.Song{ID: "s1", Title: "Song One"})

	song, err := repo.GetSong(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSong: %v", err)
	}
	if song.Title != "Song One" {
		t.Errorf("unexpected song: %+v", song)
	}
}

func TestRepository_GetSong_not_found(t *testing.T) {
	repo := NewRepository()

	_, err := repo.GetSong(context.Background(), "missing")
	if !errors.Is(err, presenter.ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
}

func TestRepository_active_schedule(t *testing.T) {
	repo := NewRepository()
	repo.SetSchedule(presenter.Schedule{ID: "sunday", Items: []presenter.Item{{ID: "i0"}}})

	if _, ok := repo.GetActiveSchedule(context.Background()); ok {
		t.Error("no schedule should be active before SetActiveSchedule")
	}

	repo.SetActiveSchedule("sunday")
	schedule, ok := repo.GetActiveSchedule(context.Background())
	if !ok {
		t.Fatal("expected active schedule")
	}
	if schedule.ID != "sunday" || len(schedule.Items) != 1 {
		t.Errorf("unexpected schedule: %+v", schedule)
	}
}

func TestRepository_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	seed := `{
		"songs": [
			{"id": "s1", "title": "Song One",
			 "parts": [{"id": "V", "label": "Verse", "slides": ["line one"]}],
			 "variants": [{"id": "default", "arrangement": ["V"]}]}
		],
		"schedules": [
			{"id": "sunday", "items": [{"id": "i0", "kind": "song", "title": "Song One", "song_id": "s1", "variant_id": "default"}]}
		],
		"active_schedule": "sunday"
	}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository()
	if err := repo.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	song, err := repo.GetSong(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSong after load: %v", err)
	}
	if len(song.Variants) != 1 || song.Variants[0].Arrangement[0] != "V" {
		t.Errorf("unexpected song: %+v", song)
	}

	schedule, ok := repo.GetActiveSchedule(context.Background())
	if !ok || schedule.Items[0].SongID != "s1" {
		t.Errorf("unexpected active schedule: ok=%v %+v", ok, schedule)
	}
}

func TestRepository_LoadFile_missing_is_noop(t *testing.T) {
	repo := NewRepository()
	if err := repo.LoadFile(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Errorf("missing seed file should not error: %v", err)
	}
}

func TestRepository_LoadFile_invalid_json(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository()
	if err := repo.LoadFile(path); err == nil {
		t.Error("invalid seed file should error")
	}
}
