package presenter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrSongNotFound is returned by SongLookup implementations when the
	// referenced song does not exist in the library.
	ErrSongNotFound = errors.New("song not found")

	// ErrUnknownItemKind is the hydration warning for an unrecognized kind.
	ErrUnknownItemKind = errors.New("unknown item kind")
)

// SongLookup resolves a song library document by ID. Implementations may
// perform I/O; Hydrate never calls it while holding any shared-state lock.
type SongLookup interface {
	GetSong(ctx context.Context, songID string) (Song, error)
}

// Hydrator expands Items into their flat, ordered slide sequences.
type Hydrator struct {
	lookup SongLookup
}

// NewHydrator returns a Hydrator that resolves song references through lookup.
func NewHydrator(lookup SongLookup) *Hydrator {
	return &Hydrator{lookup: lookup}
}

// Hydrate maps one item into its ordered slide sequence. Indices are assigned
// contiguously from 0 in display order. A failed song lookup or an unknown
// item kind yields an empty sequence and a non-nil warning; callers log the
// warning and treat the empty sequence as "nothing to show".
func (h *Hydrator) Hydrate(ctx context.Context, item Item) ([]Slide, error) {
	switch item.Kind {
	case KindSong:
		return h.hydrateSong(ctx, item)
	case KindDeck:
		return hydrateDeck(item), nil
	case KindScripture:
		return hydrateScripture(item), nil
	case KindVideo:
		return []Slide{{Index: 0, Kind: SlideVideo, Payload: item.URL}}, nil
	case KindImage:
		return []Slide{{Index: 0, Kind: SlideImage, Payload: item.URL}}, nil
	case KindAudio:
		return []Slide{{Index: 0, Kind: SlideAudio, Payload: item.URL}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemKind, item.Kind)
	}
}

func (h *Hydrator) hydrateSong(ctx context.Context, item Item) ([]Slide, error) {
	song, err := h.lookup.GetSong(ctx, item.SongID)
	if err != nil {
		return nil, fmt.Errorf("hydrate song %q: %w", item.SongID, err)
	}

	variant := selectVariant(song, item.VariantID)
	if variant == nil {
		return nil, fmt.Errorf("hydrate song %q: no variants", item.SongID)
	}

	parts := make(map[string]SongPart, len(song.Parts))
	for _, p := range song.Parts {
		parts[p.ID] = p
	}

	// Arrangement parts may repeat; each occurrence re-emits its sub-slides
	// and indices keep incrementing.
	var out []Slide
	for _, partID := range variant.Arrangement {
		part, ok := parts[partID]
		if !ok {
			continue
		}
		for _, text := range part.Slides {
			out = append(out, Slide{
				Index:      len(out),
				Kind:       SlideText,
				Payload:    text,
				GroupLabel: part.Label,
				GroupKey:   part.ID,
			})
		}
	}
	return out, nil
}

// selectVariant picks the variant matching variantID, falling back to the
// first variant when no ID matches.
func selectVariant(song Song, variantID string) *SongVariant {
	for i := range song.Variants {
		if song.Variants[i].ID == variantID {
			return &song.Variants[i]
		}
	}
	if len(song.Variants) > 0 {
		return &song.Variants[0]
	}
	return nil
}

func hydrateDeck(item Item) []Slide {
	out := make([]Slide, 0, len(item.DeckSlides))
	for _, d := range item.DeckSlides {
		out = append(out, Slide{Index: len(out), Kind: d.Kind, Payload: d.Content})
	}
	return out
}

func hydrateScripture(item Item) []Slide {
	out := make([]Slide, 0, len(item.Verses))
	for i, verse := range item.Verses {
		out = append(out, Slide{
			Index:      len(out),
			Kind:       SlideText,
			Payload:    verse,
			GroupLabel: fmt.Sprintf("%s:%d", item.Reference, i+1),
		})
	}
	return out
}

// TokenSource issues monotonically increasing tokens so that async hydration
// callers can recognize and discard results superseded by a newer request.
// The last hydration to be issued for a cursor wins.
type TokenSource struct {
	n atomic.Uint64
}

// Next returns a fresh token, strictly greater than all previously issued.
func (t *TokenSource) Next() uint64 {
	return t.n.Add(1)
}

// Stale reports whether token has been superseded by a newer request.
func (t *TokenSource) Stale(token uint64) bool {
	return token < t.n.Load()
}
