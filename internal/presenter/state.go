package presenter

import (
	"slices"
	"sync"
)

// State is the process-wide authoritative record of what is on preview and
// live, plus display mode and background state. It is owned exclusively by
// the synchronization hub; connection handlers never hold references into it.
// All transitions validate first, then apply atomically under the mutex.
// A transition whose precondition fails changes nothing and reports ok=false
// so the caller skips the broadcast.
type State struct {
	mu sync.RWMutex

	preview Cursor
	live    Cursor

	// Previous live cursor, kept for visual transition effects only.
	prevLive Cursor

	playback PlaybackState

	mode       DisplayMode
	background string
	logo       string

	// Opaque visual config, passed through unchanged.
	displaySettings    map[string]any
	confidenceSettings map[string]any
}

// NewState returns a State with empty cursors and display mode "content".
func NewState() *State {
	return &State{mode: ModeContent}
}

// LiveUpdate is the broadcastable result of a transition that touched the
// live cursor.
type LiveUpdate struct {
	Live     Cursor        `json:"live"`
	Playback PlaybackState `json:"playback"`
}

// Snapshot is the full broadcastable state, sent to a client on connect or
// on explicit request. The same shape serves both; the payload is idempotent.
type Snapshot struct {
	Live               Cursor         `json:"live"`
	Playback           PlaybackState  `json:"playback"`
	Mode               DisplayMode    `json:"display_mode"`
	Background         string         `json:"background"`
	Logo               string         `json:"logo"`
	DisplaySettings    map[string]any `json:"display_settings,omitempty"`
	ConfidenceSettings map[string]any `json:"confidence_settings,omitempty"`
}

// StagePreview replaces the preview cursor wholesale. There is no
// precondition; an index outside the new content is normalized to 0.
func (s *State) StagePreview(item *Item, content []Slide, index int) Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(content) {
		index = 0
	}
	s.preview = Cursor{Item: item, Content: content, Index: index}
	return copyCursor(s.preview)
}

// SetPreviewIndex moves the preview cursor. Out-of-bounds indices are
// rejected without any state change.
func (s *State) SetPreviewIndex(i int) (Cursor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.preview.Content) {
		return Cursor{}, false
	}
	s.preview.Index = i
	return copyCursor(s.preview), true
}

// GoLive copies the preview cursor into live verbatim, snapshotting the old
// live into the previous-live fields first, and resets the playback
// sub-state (auto-playing when the new live item is a video). It is rejected
// when preview is empty, and is a no-op when live already equals preview, so
// repeated invocations never clobber the previous-live snapshot with itself.
func (s *State) GoLive() (LiveUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preview.Empty() {
		return LiveUpdate{}, false
	}
	if cursorsEqual(s.live, s.preview) {
		return LiveUpdate{}, false
	}

	s.prevLive = s.live
	s.live = copyCursor(s.preview)

	s.playback = PlaybackState{IsPlaying: s.live.Item.Kind == KindVideo}

	return LiveUpdate{Live: copyCursor(s.live), Playback: s.playback}, true
}

// SetLiveIndex moves the live cursor. Out-of-bounds indices are rejected
// without any state change.
func (s *State) SetLiveIndex(i int) (LiveUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.live.Content) {
		return LiveUpdate{}, false
	}
	s.live.Index = i
	return LiveUpdate{Live: copyCursor(s.live), Playback: s.playback}, true
}

// SetDisplayMode stores mode unconditionally. Toggle-back-to-content
// semantics belong to the calling console layer, not here.
func (s *State) SetDisplayMode(mode DisplayMode) DisplayMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	return s.mode
}

// SetBackground replaces the background path, independent of live content.
func (s *State) SetBackground(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.background = path
	return s.background
}

// SetLogo replaces the logo path.
func (s *State) SetLogo(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logo = path
	return s.logo
}

// SetDisplaySettings replaces the opaque main-output visual config.
func (s *State) SetDisplaySettings(settings map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.displaySettings = settings
	return s.displaySettings
}

// SetConfidenceSettings replaces the opaque confidence-monitor config.
func (s *State) SetConfidenceSettings(settings map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.confidenceSettings = settings
	return s.confidenceSettings
}

// Resume un-pauses playback, clearing any chapter hold.
func (s *State) Resume() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playback.IsPlaying = true
	s.playback.IsHolding = false
	return s.playback
}

// Pause stops playback. A hold flag set by a chapter boundary is preserved so
// Resume can distinguish it from an operator pause.
func (s *State) Pause(holding bool) PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playback.IsPlaying = false
	s.playback.IsHolding = holding
	return s.playback
}

// Seek updates the current playback position and known duration.
func (s *State) Seek(currentTime, duration float64) PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playback.CurrentTime = currentTime
	if duration > 0 {
		s.playback.Duration = duration
	}
	return s.playback
}

// Snapshot returns a full copy of the broadcastable state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Live:               copyCursor(s.live),
		Playback:           s.playback,
		Mode:               s.mode,
		Background:         s.background,
		Logo:               s.logo,
		DisplaySettings:    s.displaySettings,
		ConfidenceSettings: s.confidenceSettings,
	}
}

// Preview returns a copy of the preview cursor.
func (s *State) Preview() Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCursor(s.preview)
}

// Live returns a copy of the live cursor.
func (s *State) Live() Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCursor(s.live)
}

// PreviousLive returns a copy of the live cursor as it was before the most
// recent GoLive.
func (s *State) PreviousLive() Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCursor(s.prevLive)
}

// copyCursor clones c so callers never alias the state's internal slices.
func copyCursor(c Cursor) Cursor {
	out := c
	if c.Content != nil {
		out.Content = slices.Clone(c.Content)
	}
	return out
}

func cursorsEqual(a, b Cursor) bool {
	if a.Empty() != b.Empty() {
		return false
	}
	if a.Empty() {
		return true
	}
	return a.Item.ID == b.Item.ID && a.Index == b.Index && slices.Equal(a.Content, b.Content)
}
