package presenter

import (
	"reflect"
	"testing"
)

func textItem(id string) *Item {
	return &Item{ID: id, Kind: KindScripture, Title: id}
}

func TestState_StagePreview_replaces_wholesale(t *testing.T) {
	s := NewState()

	s.StagePreview(textItem("a"), seqOf(3), 2)
	cur := s.Preview()
	if cur.Item.ID != "a" || cur.Index != 2 || len(cur.Content) != 3 {
		t.Errorf("unexpected preview cursor: %+v", cur)
	}

	s.StagePreview(textItem("b"), seqOf(1), 0)
	cur = s.Preview()
	if cur.Item.ID != "b" || cur.Index != 0 || len(cur.Content) != 1 {
		t.Errorf("restaging should replace wholesale: %+v", cur)
	}
}

func TestState_StagePreview_normalizes_bad_index(t *testing.T) {
	s := NewState()

	cur := s.StagePreview(textItem("a"), seqOf(2), 9)
	if cur.Index != 0 {
		t.Errorf("out-of-bounds stage index should normalize to 0, got %d", cur.Index)
	}
}

func TestState_SetPreviewIndex_bounds(t *testing.T) {
	s := NewState()
	s.StagePreview(textItem("a"), seqOf(3), 0)

	if _, ok := s.SetPreviewIndex(2); !ok {
		t.Error("in-bounds index should be accepted")
	}
	if _, ok := s.SetPreviewIndex(3); ok {
		t.Error("out-of-bounds index should be rejected")
	}
	if _, ok := s.SetPreviewIndex(-1); ok {
		t.Error("negative index should be rejected")
	}
	if cur := s.Preview(); cur.Index != 2 {
		t.Errorf("rejected transitions should not change state: index %d", cur.Index)
	}
}

func TestState_GoLive_empty_preview_rejected(t *testing.T) {
	s := NewState()

	before := s.Snapshot()
	if _, ok := s.GoLive(); ok {
		t.Fatal("GoLive with empty preview should be rejected")
	}
	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("rejected GoLive must leave live state unchanged:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestState_GoLive_copies_preview(t *testing.T) {
	s := NewState()
	s.StagePreview(textItem("a"), seqOf(3), 1)

	upd, ok := s.GoLive()
	if !ok {
		t.Fatal("GoLive should succeed with a staged preview")
	}
	if upd.Live.Item.ID != "a" || upd.Live.Index != 1 || len(upd.Live.Content) != 3 {
		t.Errorf("live should copy preview verbatim: %+v", upd.Live)
	}
	if upd.Playback.IsPlaying {
		t.Error("non-video item should not auto-play")
	}
}

func TestState_GoLive_video_autoplays(t *testing.T) {
	s := NewState()
	item := &Item{ID: "v", Kind: KindVideo, URL: "/media/v.mp4"}
	s.StagePreview(item, []Slide{{Index: 0, Kind: SlideVideo, Payload: item.URL}}, 0)

	upd, ok := s.GoLive()
	if !ok {
		t.Fatal("GoLive should succeed")
	}
	if !upd.Playback.IsPlaying {
		t.Error("video item should auto-play on go-live")
	}
}

func TestState_GoLive_snapshots_previous_live(t *testing.T) {
	s := NewState()

	s.StagePreview(textItem("first"), seqOf(2), 0)
	if _, ok := s.GoLive(); !ok {
		t.Fatal("first GoLive should succeed")
	}

	s.StagePreview(textItem("second"), seqOf(2), 0)
	if _, ok := s.GoLive(); !ok {
		t.Fatal("second GoLive should succeed")
	}

	if prev := s.PreviousLive(); prev.Item == nil || prev.Item.ID != "first" {
		t.Errorf("previous live should hold the old live item: %+v", prev)
	}
}

func TestState_GoLive_idempotent_with_unchanged_preview(t *testing.T) {
	s := NewState()

	s.StagePreview(textItem("first"), seqOf(2), 0)
	if _, ok := s.GoLive(); !ok {
		t.Fatal("first GoLive should succeed")
	}
	s.StagePreview(textItem("second"), seqOf(2), 0)
	if _, ok := s.GoLive(); !ok {
		t.Fatal("second GoLive should succeed")
	}

	// Preview unchanged: a repeat is a no-op and must not clobber the
	// previous-live snapshot with itself.
	if _, ok := s.GoLive(); ok {
		t.Error("repeat GoLive with unchanged preview should be a no-op")
	}
	if live := s.Live(); live.Item.ID != "second" {
		t.Errorf("live should be unchanged: %+v", live)
	}
	if prev := s.PreviousLive(); prev.Item == nil || prev.Item.ID != "first" {
		t.Errorf("previous live should still reflect the original pre-transition live: %+v", prev)
	}
}

func TestState_SetLiveIndex_bounds(t *testing.T) {
	s := NewState()
	s.StagePreview(textItem("a"), seqOf(4), 0)
	s.GoLive()

	if _, ok := s.SetLiveIndex(3); !ok {
		t.Error("index 3 of 4 slides should be accepted")
	}
	if _, ok := s.SetLiveIndex(4); ok {
		t.Error("index past the end should be rejected")
	}
	if live := s.Live(); live.Index != 3 {
		t.Errorf("rejection should not move the cursor: index %d", live.Index)
	}
}

func TestState_SetDisplayMode_stores_unconditionally(t *testing.T) {
	s := NewState()

	if got := s.SetDisplayMode(ModeBlack); got != ModeBlack {
		t.Errorf("SetDisplayMode = %q", got)
	}
	// The state machine stores whatever it is given, twice; toggling is the
	// caller's policy.
	if got := s.SetDisplayMode(ModeBlack); got != ModeBlack {
		t.Errorf("repeat SetDisplayMode = %q", got)
	}
	if snap := s.Snapshot(); snap.Mode != ModeBlack {
		t.Errorf("snapshot mode = %q", snap.Mode)
	}
}

func TestState_background_and_logo(t *testing.T) {
	s := NewState()

	s.SetBackground("bg.jpg")
	s.SetLogo("logo.png")
	snap := s.Snapshot()
	if snap.Background != "bg.jpg" || snap.Logo != "logo.png" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestState_playback_transitions(t *testing.T) {
	s := NewState()
	item := &Item{ID: "v", Kind: KindVideo}
	s.StagePreview(item, []Slide{{Index: 0, Kind: SlideVideo}}, 0)
	s.GoLive()

	pb := s.Pause(true)
	if pb.IsPlaying || !pb.IsHolding {
		t.Errorf("pause at chapter mark: %+v", pb)
	}

	pb = s.Resume()
	if !pb.IsPlaying || pb.IsHolding {
		t.Errorf("resume should clear the hold: %+v", pb)
	}

	pb = s.Seek(12.5, 60)
	if pb.CurrentTime != 12.5 || pb.Duration != 60 {
		t.Errorf("seek: %+v", pb)
	}
}

func TestState_snapshot_does_not_alias_content(t *testing.T) {
	s := NewState()
	s.StagePreview(textItem("a"), seqOf(2), 0)
	s.GoLive()

	snap := s.Snapshot()
	snap.Live.Content[0].Payload = "mutated"

	if got := s.Live().Content[0].Payload; got == "mutated" {
		t.Error("snapshot must not alias internal slices")
	}
}
