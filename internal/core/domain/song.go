package domain

import (
	"errors"
	"fmt"
	"time"
)

// Song sources.
const (
	SourceLocal   = "local"
	SourceSpotify = "spotify"
)

// Song is a playable track resolved for a mood. For local songs Path is
// the URL path the server serves the file under and File is the path
// relative to the music root. Spotify songs carry a preview URL in Path
// plus track metadata.
type Song struct {
	Mood     Mood
	File     string
	Path     string
	Source   string
	Title    string // spotify only
	Artist   string // spotify only
	Duration time.Duration
}

// ErrNotFound indicates a missing catalog record.
var ErrNotFound = errors.New("domain: not found")

// ErrNoSongs indicates no file could be resolved for a mood, even after
// the neutral fallback.
var ErrNoSongs = errors.New("no songs available")

// NoSongsError reports which mood could not be served. It satisfies
// errors.Is(err, ErrNoSongs).
type NoSongsError struct {
	Mood Mood
}

func (e NoSongsError) Error() string {
	if e.Mood == "" {
		return ErrNoSongs.Error()
	}
	return fmt.Sprintf("no songs available for mood %q and the neutral fallback is empty; add files under the music root", e.Mood)
}

func (e NoSongsError) Is(target error) bool {
	return target == ErrNoSongs
}
