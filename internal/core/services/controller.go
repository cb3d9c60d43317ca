package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Default cadences for the two polling loops.
const (
	DefaultSampleInterval   = 1 * time.Second
	DefaultScheduleInterval = 5 * time.Second
)

// ErrSessionActive is returned when Start is called while a session is
// already running. Double-start is rejected, not ignored.
var ErrSessionActive = errors.New("controller: a session is already active")

// PlaybackState describes what the scheduler currently has loaded.
// It is mutated only by the controller loop.
type PlaybackState struct {
	Mood    domain.Mood
	Path    string
	Playing bool
}

// ControllerConfig holds the injected collaborators for a [Controller].
type ControllerConfig struct {
	Camera   ports.Camera
	Detector ports.DetectorOpener
	Songs    ports.SongSource
	Player   ports.Player
	UI       ports.UI

	// SampleInterval is the expression sampler cadence (default 1s).
	SampleInterval time.Duration
	// ScheduleInterval is the playback scheduler cadence (default 5s).
	ScheduleInterval time.Duration
}

// Controller runs the mood-driven playback session. It owns the camera
// lifecycle and drives two independently-paced loops over shared mood
// state: a fast expression sampler and a slow playback scheduler.
//
// All shared state lives in the per-session struct and is touched only
// by the session goroutine; asynchronous detection and lookup calls
// report back through a channel tagged with the session ID so that a
// call completing after Stop is discarded instead of mutating anything.
type Controller struct {
	camera   ports.Camera
	detector ports.DetectorOpener
	songs    ports.SongSource
	player   ports.Player
	ui       ports.UI

	sampleInterval   time.Duration
	scheduleInterval time.Duration

	mu   sync.Mutex
	sess *session
}

// session is the state owned by one controller run. Only the session
// goroutine reads or writes the fields below the channels.
type session struct {
	id       string
	detector ports.Detector
	cancel   context.CancelFunc
	done     chan struct{}
	results  chan result

	// Latest detection state. unknown is the sentinel for "no result
	// yet" as well as a no-face result.
	unknown bool
	scores  domain.ExpressionScores

	// Scheduler bookkeeping.
	lastScheduled domain.Mood
	state         PlaybackState
}

// result is a completion message from an asynchronous call.
type result interface{ sessionID() string }

type detectResult struct {
	gen string
	det domain.Detection
	err error
}

func (r detectResult) sessionID() string { return r.gen }

type lookupResult struct {
	gen  string
	mood domain.Mood
	song domain.Song
	err  error
}

func (r lookupResult) sessionID() string { return r.gen }

// NewController constructs a Controller from its injected dependencies.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultSampleInterval
	}
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = DefaultScheduleInterval
	}
	return &Controller{
		camera:           cfg.Camera,
		detector:         cfg.Detector,
		songs:            cfg.Songs,
		player:           cfg.Player,
		ui:               cfg.UI,
		sampleInterval:   cfg.SampleInterval,
		scheduleInterval: cfg.ScheduleInterval,
	}
}

// Start acquires the camera, opens the detection capability and begins
// both polling loops. It returns ErrSessionActive when a session is
// already running, a classified camera error when the device cannot be
// acquired, and a detector error (fatal to this session) when the
// capability fails to open. On any failure the camera is released and
// no session remains.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		return ErrSessionActive
	}

	if err := c.camera.Start(ctx); err != nil {
		c.ui.SetStatus(err.Error())
		return fmt.Errorf("controller: %w", err)
	}

	det, err := c.detector.Open(ctx)
	if err != nil {
		c.camera.Stop()
		c.ui.SetStatus("detector unavailable: " + err.Error())
		return fmt.Errorf("controller: failed to open detector: %w", err)
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       uuid.NewString(),
		detector: det,
		cancel:   cancel,
		done:     make(chan struct{}),
		results:  make(chan result, 16),
		unknown:  true,
	}
	c.sess = s
	c.ui.SetStatus("session started; waiting for a face")
	log.Printf("controller: session %s started", s.id)

	go c.run(sctx, s)
	return nil
}

// Stop cancels both loops, releases the camera and clears playback and
// all dependent display state. It is idempotent and synchronous: when
// Stop returns, no further state mutation can happen; an asynchronous
// call still in flight discards its own result on completion.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.sess
	c.sess = nil
	c.mu.Unlock()
	if s == nil {
		return
	}

	s.cancel()
	<-s.done

	c.player.Stop()
	c.camera.Stop()
	c.ui.SetMood("")
	c.ui.ClearScores()
	c.ui.SetStatus("stopped")
	log.Printf("controller: session %s stopped", s.id)
}

// Active reports whether a session is currently running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// Resume retries playback that was blocked pending a user gesture.
func (c *Controller) Resume() error {
	return c.player.Resume()
}

func (c *Controller) run(ctx context.Context, s *session) {
	defer close(s.done)

	sample := time.NewTicker(c.sampleInterval)
	defer sample.Stop()
	schedule := time.NewTicker(c.scheduleInterval)
	defer schedule.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sample.C:
			c.sampleTick(ctx, s)
		case <-schedule.C:
			c.scheduleTick(ctx, s)
		case r := <-s.results:
			c.apply(ctx, s, r)
		}
	}
}

// sampleTick fires one detection request. It does not wait for earlier
// requests: overlapping calls are tolerated and the last one to
// complete wins.
func (c *Controller) sampleTick(ctx context.Context, s *session) {
	frame, err := c.camera.Frame()
	if err != nil {
		c.ui.SetStatus("camera frame unavailable: " + err.Error())
		return
	}

	go func() {
		det, derr := s.detector.Detect(ctx, frame)
		select {
		case s.results <- detectResult{gen: s.id, det: det, err: derr}:
		case <-ctx.Done():
			// Session stopped while the call was in flight; the result
			// must not touch any shared state.
		}
	}()
}

// scheduleTick consults the latest resolved mood and decides whether a
// song lookup is warranted.
func (c *Controller) scheduleTick(ctx context.Context, s *session) {
	// No detection result available: the previously loaded track, if
	// any, keeps playing unmodified. A persisting no-face condition
	// never pauses playback.
	if s.unknown {
		return
	}

	mood := domain.DominantMood(s.scores)

	// Suppression: same mood, track loaded and actively playing means
	// no network call at all.
	if mood == s.lastScheduled && s.state.Path != "" && c.player.Playing() {
		return
	}

	s.lastScheduled = mood
	go func() {
		// No timeout here: a hang stalls only this tick's decision.
		song, lerr := c.songs.Lookup(ctx, mood)
		select {
		case s.results <- lookupResult{gen: s.id, mood: mood, song: song, err: lerr}:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) apply(ctx context.Context, s *session, r result) {
	if r.sessionID() != s.id {
		return
	}
	switch r := r.(type) {
	case detectResult:
		c.applyDetection(s, r)
	case lookupResult:
		c.applyLookup(ctx, s, r)
	}
}

func (c *Controller) applyDetection(s *session, r detectResult) {
	if r.err != nil {
		c.ui.SetStatus("detection failed: " + r.err.Error())
		return
	}
	if !r.det.FaceFound {
		s.unknown = true
		c.ui.SetMood("no face")
		c.ui.ClearScores()
		return
	}
	s.unknown = false
	s.scores = r.det.Scores
	c.ui.SetMood(string(r.det.Dominant()))
	c.ui.UpdateScores(r.det.Scores)
}

func (c *Controller) applyLookup(ctx context.Context, s *session, r lookupResult) {
	if r.err != nil {
		// Lookup failure is non-fatal: surface the message and leave
		// current playback untouched.
		c.ui.SetStatus("song lookup failed: " + r.err.Error())
		return
	}

	if r.song.Path == s.state.Path {
		// Same file for a (possibly) different mood: never restart.
		s.state.Mood = r.mood
		return
	}

	err := c.player.Load(ctx, r.song.Path)
	switch {
	case err == nil:
		s.state = PlaybackState{Mood: r.mood, Path: r.song.Path, Playing: true}
		c.ui.SetStatus(fmt.Sprintf("playing %s (%s)", r.song.File, r.mood))
	case errors.Is(err, ports.ErrPlaybackBlocked):
		// Track is loaded but output waits for a user trigger.
		s.state = PlaybackState{Mood: r.mood, Path: r.song.Path, Playing: false}
		c.ui.SetStatus("track ready; press play to start audio")
	default:
		c.ui.SetStatus("playback failed: " + err.Error())
	}
}
