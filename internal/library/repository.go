package library

import (
	"context"
	"sync"

	"stagecast/internal/presenter"
)

// Repository is the concurrency-safe in-memory implementation of the song
// lookup and schedule store collaborator boundaries. Songs and schedules are
// seeded at startup (see Seed); live state never writes back into it.
type Repository struct {
	mu        sync.RWMutex
	songs     map[string]presenter.Song
	schedules map[string]presenter.Schedule
	activeID  string
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		songs:     make(map[string]presenter.Song),
		schedules: make(map[string]presenter.Schedule),
	}
}

// GetSong implements presenter.SongLookup.
func (r *Repository) GetSong(_ context.Context, songID string) (presenter.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	song, ok := r.songs[songID]
	if !ok {
		return presenter.Song{}, presenter.ErrSongNotFound
	}
	return song, nil
}

// SetSong stores or replaces a song document.
func (r *Repository) SetSong(song presenter.Song) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.songs[song.ID] = song
}

// ListSongIDs returns the IDs of all stored songs.
func (r *Repository) ListSongIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.songs))
	for id := range r.songs {
		ids = append(ids, id)
	}
	return ids
}

// SetSchedule stores or replaces a schedule.
func (r *Repository) SetSchedule(schedule presenter.Schedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[schedule.ID] = schedule
}

// SetActiveSchedule marks the schedule with the given ID as the active run
// of show. Unknown IDs clear the active schedule.
func (r *Repository) SetActiveSchedule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeID = id
}

// GetActiveSchedule implements presenter.ScheduleStore. The ok return is
// false when no schedule is active.
func (r *Repository) GetActiveSchedule(_ context.Context) (presenter.Schedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.schedules[r.activeID]
	return schedule, ok
}
