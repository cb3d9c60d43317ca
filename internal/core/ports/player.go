package ports

import (
	"context"
	"errors"
)

// ErrPlaybackBlocked reports that a track was loaded but playback could
// not start without a user gesture (no audio device, platform autoplay
// policy). The condition is a non-fatal degradation: state advances as
// if loaded and actual output waits for Resume.
var ErrPlaybackBlocked = errors.New("playback blocked pending user trigger")

// Player is the audio output surface. Load fetches and starts the given
// path, replacing whatever was playing. Playing reports whether audio
// is actively being produced.
type Player interface {
	Load(ctx context.Context, path string) error
	Playing() bool
	// Resume retries blocked playback after a user-initiated trigger.
	Resume() error
	Stop()
}
