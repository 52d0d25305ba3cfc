package library

import (
	"encoding/json"
	"fmt"
	"os"

	"stagecast/internal/presenter"
)

// Seed is the JSON file shape the repository is loaded from at startup.
type Seed struct {
	Songs          []presenter.Song     `json:"songs"`
	Schedules      []presenter.Schedule `json:"schedules"`
	ActiveSchedule string               `json:"active_schedule"`
}

// LoadFile reads a seed file and applies it to the repository. A missing
// path is not an error; the server just starts with an empty library.
func (r *Repository) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read library file: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse library file %s: %w", path, err)
	}

	for _, song := range seed.Songs {
		r.SetSong(song)
	}
	for _, schedule := range seed.Schedules {
		r.SetSchedule(schedule)
	}
	if seed.ActiveSchedule != "" {
		r.SetActiveSchedule(seed.ActiveSchedule)
	}
	return nil
}
