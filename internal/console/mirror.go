// Package console holds the operator-console side of the sync protocol: a
// local mirror of the hub's broadcastable state, and the thin UI policies
// (display-mode toggling, bounds-checked slide navigation) that decide which
// commands to send. The mirror may be updated optimistically before the
// hub's echo arrives; whatever the hub broadcasts next overwrites it
// unconditionally, so no merge logic exists.
package console

import (
	"sync"

	"stagecast/internal/hub"
	"stagecast/internal/presenter"
)

// Mirror is a console's local copy of hub state. Last authoritative write
// wins.
type Mirror struct {
	mu sync.RWMutex

	live        presenter.Cursor
	preview     presenter.Cursor
	playback    presenter.PlaybackState
	mode        presenter.DisplayMode
	background  string
	logo        string
	displaySet  map[string]any
	confidence  map[string]any
	backgrounds []string
}

// NewMirror returns an empty mirror with display mode "content".
func NewMirror() *Mirror {
	return &Mirror{mode: presenter.ModeContent}
}

// Apply folds one hub event into the mirror, overwriting the affected
// fields. Unknown event types are ignored; a later snapshot resolves any
// divergence.
func (m *Mirror) Apply(evt hub.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch evt.Type {
	case hub.EvtSnapshot:
		if evt.Snapshot == nil {
			return
		}
		m.live = evt.Snapshot.Live
		m.playback = evt.Snapshot.Playback
		m.mode = evt.Snapshot.Mode
		m.background = evt.Snapshot.Background
		m.logo = evt.Snapshot.Logo
		m.displaySet = evt.Snapshot.DisplaySettings
		m.confidence = evt.Snapshot.ConfidenceSettings
		m.backgrounds = evt.Snapshot.Backgrounds

	case hub.EvtPreviewUpdated:
		m.preview = eventCursor(evt)

	case hub.EvtLiveUpdated:
		m.live = eventCursor(evt)
		if evt.Playback != nil {
			m.playback = *evt.Playback
		}

	case hub.EvtDisplayModeUpdated:
		m.mode = evt.Mode

	case hub.EvtBackgroundUpdated:
		m.background = evt.Path

	case hub.EvtLogoUpdated:
		m.logo = evt.Path

	case hub.EvtDisplaySettingsUpdated:
		m.displaySet = evt.Settings

	case hub.EvtConfidenceSettingsUpdated:
		m.confidence = evt.Settings

	case hub.EvtPlaybackUpdated:
		if evt.Playback != nil {
			m.playback = *evt.Playback
		}

	case hub.EvtBackgroundsUpdated:
		m.backgrounds = evt.Backgrounds
	}
}

// Live returns the mirrored live cursor.
func (m *Mirror) Live() presenter.Cursor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live
}

// Preview returns the mirrored preview cursor.
func (m *Mirror) Preview() presenter.Cursor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preview
}

// Mode returns the mirrored display mode.
func (m *Mirror) Mode() presenter.DisplayMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Playback returns the mirrored playback sub-state.
func (m *Mirror) Playback() presenter.PlaybackState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playback
}

// Backgrounds returns the mirrored background-asset listing.
func (m *Mirror) Backgrounds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backgrounds
}

// ToggleDisplayMode implements the console's mode-button behavior on top of
// the hub's plain setter: pressing the button for the mode that is already
// active requests "content" instead, so the same button toggles the override
// off. The returned mode is what the console should send; the mirror is
// updated optimistically.
func (m *Mirror) ToggleDisplayMode(target presenter.DisplayMode) presenter.DisplayMode {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := target
	if target != presenter.ModeContent && m.mode == target {
		next = presenter.ModeContent
	}
	m.mode = next
	return next
}

// LiveGroups returns the live slide sequence bucketed by logical part, the
// shape the confidence monitor renders (one row per verse/chorus).
func (m *Mirror) LiveGroups() []presenter.SlideGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return presenter.GroupByKey(m.live.Content)
}

// NextLiveIndex returns the bounds-checked command index for advancing the
// live slide, or ok=false at the end of the sequence (the control is
// disabled; no command is sent).
func (m *Mirror) NextLiveIndex() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return presenter.NextIndex(m.live.Content, m.live.Index)
}

// PrevLiveIndex returns the bounds-checked command index for stepping the
// live slide back, or ok=false at the start.
func (m *Mirror) PrevLiveIndex() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return presenter.PrevIndex(m.live.Content, m.live.Index)
}

func eventCursor(evt hub.Event) presenter.Cursor {
	c := presenter.Cursor{Item: evt.Item, Content: evt.Content}
	if evt.Index != nil {
		c.Index = *evt.Index
	}
	return c
}
