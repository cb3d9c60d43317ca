package worker

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// TrackInfo is the metadata a probe extracts from one MP3 file.
type TrackInfo struct {
	Duration   time.Duration
	SampleRate int
}

func probeFile(path string) (TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("probe open failed: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("probe decode failed: %w", err)
	}

	rate := decoder.SampleRate()
	if rate <= 0 {
		return TrackInfo{}, fmt.Errorf("probe reported sample rate %d", rate)
	}

	// Length is the decoded PCM size: stereo 16-bit, so 4 bytes per
	// sample frame.
	frames := decoder.Length() / 4
	duration := time.Duration(frames) * time.Second / time.Duration(rate)

	return TrackInfo{Duration: duration, SampleRate: rate}, nil
}

// ProbeFileFunc allows tests to override the probe implementation.
var ProbeFileFunc = probeFile
