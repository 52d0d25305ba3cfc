package presenter

// ItemKind discriminates the closed set of presentable item kinds.
type ItemKind string

const (
	KindSong      ItemKind = "song"
	KindDeck      ItemKind = "deck"
	KindScripture ItemKind = "scripture"
	KindVideo     ItemKind = "video"
	KindImage     ItemKind = "image"
	KindAudio     ItemKind = "audio"
)

// SlideKind is the kind of content a single hydrated slide carries.
type SlideKind string

const (
	SlideText  SlideKind = "text"
	SlideImage SlideKind = "image"
	SlideVideo SlideKind = "video"
	SlideAudio SlideKind = "audio"
)

// Overrides are per-instance playback settings attached to an item,
// independent of the library document it may reference.
type Overrides struct {
	Loop       bool   `json:"loop,omitempty"`
	Mute       bool   `json:"mute,omitempty"`
	AspectMode string `json:"aspect_mode,omitempty"`
	Transition string `json:"transition,omitempty"`
}

// DeckSlide is one stored entry of a slide-deck item.
type DeckSlide struct {
	Kind    SlideKind `json:"kind"`
	Content string    `json:"content"`
}

// Item is the tagged union over all presentable content kinds. Kind selects
// which of the type-specific fields are meaningful: songs reference a library
// document by SongID plus a VariantID; decks and scriptures carry their
// content inline; media items carry a URL.
type Item struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Overrides Overrides `json:"overrides,omitempty"`

	// Song reference.
	SongID    string `json:"song_id,omitempty"`
	VariantID string `json:"variant_id,omitempty"`

	// Slide deck.
	DeckSlides []DeckSlide `json:"deck_slides,omitempty"`

	// Scripture.
	Reference string   `json:"reference,omitempty"`
	Verses    []string `json:"verses,omitempty"`

	// Video / image / audio.
	URL string `json:"url,omitempty"`
}

// Slide is one atomic, indexable unit of displayable content produced by
// hydration. For any hydrated sequence of length N, Index is the contiguous
// range 0..N-1 in display order.
type Slide struct {
	Index      int       `json:"index"`
	Kind       SlideKind `json:"kind"`
	Payload    string    `json:"payload"`
	GroupLabel string    `json:"group_label,omitempty"`
	GroupKey   string    `json:"group_key,omitempty"`
}

// SongPart is a logical section of a song (verse, chorus, bridge) with its
// ordered sub-slides of lyric text.
type SongPart struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Slides []string `json:"slides"`
}

// SongVariant is a named arrangement: an ordering of part IDs that may
// repeat parts.
type SongVariant struct {
	ID          string   `json:"id"`
	Arrangement []string `json:"arrangement"`
}

// Song is a library song document as returned by the song-lookup collaborator.
type Song struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Parts    []SongPart    `json:"parts"`
	Variants []SongVariant `json:"variants"`
}

// Schedule is an ordered run of show.
type Schedule struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

// DisplayMode describes what the main output renders irrespective of the
// live item.
type DisplayMode string

const (
	ModeContent DisplayMode = "content"
	ModeBlack   DisplayMode = "black"
	ModeClear   DisplayMode = "clear"
	ModeLogo    DisplayMode = "logo"
)

// PlaybackState is the media-playback sub-state of the live cursor, used by
// video-backed slides that pause at embedded chapter marks ("holding").
type PlaybackState struct {
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	IsHolding   bool    `json:"is_holding"`
}

// Cursor pairs an item with its hydrated slide sequence and the current
// position within it. An empty cursor has a nil Item and empty Content.
type Cursor struct {
	Item    *Item   `json:"item"`
	Content []Slide `json:"content"`
	Index   int     `json:"index"`
}

// Empty reports whether nothing is staged on this cursor.
func (c Cursor) Empty() bool {
	return c.Item == nil || len(c.Content) == 0
}
