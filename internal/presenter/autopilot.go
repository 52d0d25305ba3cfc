package presenter

import (
	"context"
	"log/slog"
)

// ScheduleStore is the collaborator boundary for the active run of show.
type ScheduleStore interface {
	GetActiveSchedule(ctx context.Context) (Schedule, bool)
}

// Autopilot advances the preview cursor to the next schedule entry whenever
// an item belonging to the active schedule goes live. It is best-effort
// convenience: any failure is logged and ignored, never blocking a
// transition.
type Autopilot struct {
	schedules ScheduleStore
	hydrator  *Hydrator
	tokens    TokenSource
	log       *slog.Logger
}

// NewAutopilot returns an Autopilot reading from schedules and hydrating
// staged items through hydrator.
func NewAutopilot(schedules ScheduleStore, hydrator *Hydrator, log *slog.Logger) *Autopilot {
	return &Autopilot{schedules: schedules, hydrator: hydrator, log: log}
}

// NextEntry locates the schedule entry matching the item that just went live
// and returns the following entry, fully hydrated. The ok return is false
// when the live item is ad-hoc (no schedule match), already the last entry,
// or the hydration was superseded by a newer request.
func (a *Autopilot) NextEntry(ctx context.Context, live Item) (Item, []Slide, bool) {
	schedule, ok := a.schedules.GetActiveSchedule(ctx)
	if !ok {
		return Item{}, nil, false
	}

	idx := matchScheduleIndex(schedule, live)
	if idx < 0 || idx+1 >= len(schedule.Items) {
		return Item{}, nil, false
	}

	next := schedule.Items[idx+1]

	// Hydration may hit the song library; tag the request so a stale result
	// is discarded when a newer one has been issued meanwhile.
	token := a.tokens.Next()
	content, err := a.hydrator.Hydrate(ctx, next)
	if err != nil {
		a.log.Warn("autopilot hydration failed",
			slog.String("item_id", next.ID),
			slog.String("error", err.Error()))
	}
	if a.tokens.Stale(token) {
		return Item{}, nil, false
	}

	a.log.Debug("autopilot staged next entry",
		slog.String("schedule_id", schedule.ID),
		slog.Int("entry", idx+1),
		slog.String("item_id", next.ID))
	return next, content, true
}

// matchScheduleIndex finds the schedule entry the live item originated from:
// exact item identity first, then for songs a song+variant match. When the
// same song appears twice, the first match wins.
func matchScheduleIndex(schedule Schedule, live Item) int {
	for i, entry := range schedule.Items {
		if entry.ID == live.ID {
			return i
		}
	}
	if live.Kind == KindSong {
		for i, entry := range schedule.Items {
			if entry.Kind == KindSong && entry.SongID == live.SongID && entry.VariantID == live.VariantID {
				return i
			}
		}
	}
	return -1
}
