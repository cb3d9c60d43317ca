package ports

import (
	"context"
	"time"

	"github.com/lumen-labs/moodamp/internal/core/domain"
)

// SongSource resolves a mood to a playable song. The server-side
// selector and the client-side HTTP song client both implement it.
// A lookup never succeeds with an empty path.
type SongSource interface {
	Lookup(ctx context.Context, mood domain.Mood) (domain.Song, error)
}

// Library is the read side of the local song catalog: one directory of
// audio files per canonical mood label.
type Library interface {
	// Random picks uniformly from the mood's file set. Returns an error
	// matching domain.ErrNoSongs when the directory is empty or absent.
	Random(ctx context.Context, mood domain.Mood) (domain.Song, error)
	// Counts reports the number of catalogued files per mood.
	Counts(ctx context.Context) (map[domain.Mood]int, error)
}

// ProbeStore is the write side the track probe worker needs to record
// decoded metadata for a catalogued song.
type ProbeStore interface {
	UpdateSongInfo(ctx context.Context, songID string, duration time.Duration, sampleRate int) error
}

// PreviewSource finds a streamable preview track for a mood from an
// external provider. Used as a last-resort fallback when the local
// catalog has nothing to offer.
type PreviewSource interface {
	PreviewForMood(ctx context.Context, mood domain.Mood) (domain.Song, error)
}
