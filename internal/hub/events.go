package hub

import (
	"stagecast/internal/presenter"
)

// Command types accepted from operator consoles.
const (
	CmdStagePreview          = "stage_preview"
	CmdSetPreviewIndex       = "set_preview_index"
	CmdGoLive                = "go_live"
	CmdSetLiveIndex          = "set_live_index"
	CmdSetDisplayMode        = "set_display_mode"
	CmdSetBackground         = "set_background"
	CmdSetLogo               = "set_logo"
	CmdSetDisplaySettings    = "set_display_settings"
	CmdSetConfidenceSettings = "set_confidence_settings"
	CmdResume                = "resume"
	CmdPause                 = "pause"
	CmdSeek                  = "seek"
	CmdRequestSnapshot       = "request_snapshot"
)

// Event types broadcast to clients. Each transition kind mirrors its inbound
// command name.
const (
	EvtSnapshot                  = "snapshot"
	EvtPreviewUpdated            = "preview_updated"
	EvtLiveUpdated               = "live_updated"
	EvtDisplayModeUpdated        = "display_mode_updated"
	EvtBackgroundUpdated         = "background_updated"
	EvtLogoUpdated               = "logo_updated"
	EvtDisplaySettingsUpdated    = "display_settings_updated"
	EvtConfidenceSettingsUpdated = "confidence_settings_updated"
	EvtPlaybackUpdated           = "playback_updated"
	EvtBackgroundsUpdated        = "backgrounds_updated"
)

// Command is one inbound operator message. Type selects which payload fields
// are meaningful; unused fields stay at their zero value.
type Command struct {
	Type string `json:"type"`

	Item    *presenter.Item   `json:"item,omitempty"`
	Content []presenter.Slide `json:"content,omitempty"`
	Index   *int              `json:"index,omitempty"`

	Mode presenter.DisplayMode `json:"mode,omitempty"`
	Path string                `json:"path,omitempty"`

	Settings map[string]any `json:"settings,omitempty"`

	Holding     bool    `json:"holding,omitempty"`
	CurrentTime float64 `json:"current_time,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
}

// Event is one outbound broadcast. A delta event carries exactly the fields
// its transition changed; a snapshot event carries the full state instead.
type Event struct {
	Type string `json:"type"`

	Item    *presenter.Item   `json:"item,omitempty"`
	Content []presenter.Slide `json:"content,omitempty"`
	Index   *int              `json:"index,omitempty"`

	Playback *presenter.PlaybackState `json:"playback,omitempty"`

	Mode presenter.DisplayMode `json:"mode,omitempty"`
	Path string                `json:"path,omitempty"`

	Settings map[string]any `json:"settings,omitempty"`

	Backgrounds []string `json:"backgrounds,omitempty"`

	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot is the full broadcastable state: the shared presenter state plus
// the currently-available background assets.
type Snapshot struct {
	presenter.Snapshot
	Backgrounds []string `json:"backgrounds,omitempty"`
}

func cursorEvent(eventType string, c presenter.Cursor, playback *presenter.PlaybackState) Event {
	idx := c.Index
	return Event{
		Type:     eventType,
		Item:     c.Item,
		Content:  c.Content,
		Index:    &idx,
		Playback: playback,
	}
}
