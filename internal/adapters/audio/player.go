// Package audio plays MP3 tracks through the system output device.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"

	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// maxTrackBytes caps how much of a remote track is buffered. Local
// library files and preview clips are both well under this.
const maxTrackBytes = 64 << 20

// Player decodes MP3 data with go-mp3 and writes PCM to an oto output
// context. The context is created lazily on the first successful load;
// when no output device is available the track stays pending and
// Resume retries it.
type Player struct {
	httpClient *http.Client

	mu      sync.Mutex
	otoCtx  *oto.Context
	rate    int
	current *oto.Player

	// pending holds the fetched track that could not start because the
	// output device was unavailable.
	pendingPath string
	pendingData []byte
}

var _ ports.Player = (*Player)(nil)

// NewPlayer returns a player with no track loaded.
func NewPlayer() *Player {
	return &Player{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// Load fetches the track at path (a local file or an HTTP URL),
// replaces the current track and starts playback. When the output
// device cannot be opened it returns ErrPlaybackBlocked and keeps the
// track pending for Resume.
func (p *Player) Load(ctx context.Context, path string) error {
	data, err := p.fetch(ctx, path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startLocked(path, data)
}

// Playing reports whether audio output is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}

// Resume retries a pending track, or unpauses the current one.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pendingData != nil {
		return p.startLocked(p.pendingPath, p.pendingData)
	}
	if p.current != nil && !p.current.IsPlaying() {
		p.current.Play()
		return nil
	}
	return nil
}

// Stop halts playback and drops any pending track. The output context
// stays open for the next session.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.pendingPath = ""
	p.pendingData = nil
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	if err := p.current.Close(); err != nil {
		log.Printf("WARN audio: close player: %v", err)
	}
	p.current = nil
}

// startLocked decodes the track and begins output, recording a pending
// track on a blocked device. Caller holds p.mu.
func (p *Player) startLocked(path string, data []byte) error {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("audio: decode %s: %w", path, err)
	}

	if err := p.ensureContextLocked(decoder.SampleRate()); err != nil {
		p.pendingPath = path
		p.pendingData = data
		return fmt.Errorf("audio: %v: %w", err, ports.ErrPlaybackBlocked)
	}

	p.stopLocked()
	p.pendingPath = ""
	p.pendingData = nil

	p.current = p.otoCtx.NewPlayer(decoder)
	p.current.Play()
	return nil
}

func (p *Player) ensureContextLocked(sampleRate int) error {
	if p.otoCtx != nil {
		// oto allows one context per process; a rate mismatch plays at
		// the wrong pitch rather than failing.
		if sampleRate != p.rate {
			log.Printf("WARN audio: track sample rate %d differs from output rate %d", sampleRate, p.rate)
		}
		return nil
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("output device unavailable: %v", err)
	}
	<-ready

	p.otoCtx = otoCtx
	p.rate = sampleRate
	return nil
}

// fetch loads the raw MP3 bytes for a local path or an HTTP URL.
func (p *Player) fetch(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("audio: read %s: %w", path, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("audio: build request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio: fetch %s: status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTrackBytes))
	if err != nil {
		return nil, fmt.Errorf("audio: read body: %w", err)
	}
	return data, nil
}
