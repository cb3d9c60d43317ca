// Package services holds the core logic on both sides of the song
// contract: the Selector resolves moods to files on the server, the
// Controller drives mood-driven playback on the client.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Selector maps a mood label to a playable song. It is fully stateless:
// no session, no rate limiting, no caching across requests.
//
// Resolution order: the mood's own directory, then the neutral
// directory, then (when configured) a Spotify preview. A valid
// deployment provisions at least one neutral file so the fallback
// invariant holds.
type Selector struct {
	library ports.Library
	preview ports.PreviewSource // optional
}

// compile-time interface assertion
var _ ports.SongSource = (*Selector)(nil)

// NewSelector constructs a Selector. preview may be nil when no
// external provider is configured.
func NewSelector(library ports.Library, preview ports.PreviewSource) *Selector {
	return &Selector{
		library: library,
		preview: preview,
	}
}

// Lookup resolves mood to a song. Unrecognised labels are rejected, not
// coerced to neutral. An empty result set on every fallback yields an
// error matching domain.ErrNoSongs with a human-readable message; it is
// never an unhandled fault.
func (s *Selector) Lookup(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	if !mood.IsValid() {
		return domain.Song{}, fmt.Errorf("service: %w: %q", domain.ErrUnknownMood, mood)
	}

	song, err := s.library.Random(ctx, mood)
	if err == nil {
		return song, nil
	}
	if !errors.Is(err, domain.ErrNoSongs) {
		return domain.Song{}, fmt.Errorf("service: failed to pick song: %w", err)
	}

	// Mood directory empty or absent: fall back to the neutral set.
	if mood != domain.MoodNeutral {
		song, err = s.library.Random(ctx, domain.MoodNeutral)
		if err == nil {
			return song, nil
		}
		if !errors.Is(err, domain.ErrNoSongs) {
			return domain.Song{}, fmt.Errorf("service: failed to pick fallback song: %w", err)
		}
	}

	return s.previewFallback(ctx, mood)
}

// LookupPreferPreview tries the external preview provider before the
// local catalog. The local catalog remains the fallback when the
// provider has nothing.
func (s *Selector) LookupPreferPreview(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	if !mood.IsValid() {
		return domain.Song{}, fmt.Errorf("service: %w: %q", domain.ErrUnknownMood, mood)
	}
	if s.preview != nil {
		if song, err := s.preview.PreviewForMood(ctx, mood); err == nil {
			return song, nil
		}
		// Provider failures are soft; the local catalog decides.
	}
	return s.Lookup(ctx, mood)
}

func (s *Selector) previewFallback(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	if s.preview != nil {
		if song, err := s.preview.PreviewForMood(ctx, mood); err == nil {
			return song, nil
		}
	}
	return domain.Song{}, domain.NoSongsError{Mood: mood}
}
