//go:build linux

// Package camera acquires the local capture device through
// pion/mediadevices (V4L2 on Linux) and hands raw frames to the
// expression sampler.
package camera

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Device wraps one exclusively-held camera. Start and Stop bracket a
// session; the device is never reacquired implicitly.
type Device struct {
	mu     sync.Mutex
	track  mediadevices.Track
	reader video.Reader
}

var _ ports.Camera = (*Device)(nil)

// New returns an unacquired device.
func New() *Device { return &Device{} }

// Start opens the capture device. It tries a preferred constraint set
// first (raw frame formats, capped at 640×480) and falls back to a
// relaxed set, so a camera that cannot satisfy the preferences still
// works. Failures are classified for display.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.track != nil {
		return ports.CameraError{Kind: ports.CameraUnknown, Cause: fmt.Errorf("device already acquired")}
	}

	devices := mediadevices.EnumerateDevices()
	if len(devices) == 0 {
		return ports.CameraError{Kind: ports.CameraNoDevice, Cause: fmt.Errorf("no capture devices found")}
	}
	for _, dev := range devices {
		log.Printf("camera: device kind=%v label=%q", dev.Kind, dev.Label)
	}

	type attempt struct {
		label string
		video func(c *mediadevices.MediaTrackConstraints)
	}
	attempts := []attempt{
		{
			label: "preferred",
			video: func(c *mediadevices.MediaTrackConstraints) {
				// MJPEG nodes on some cameras emit malformed frames; raw
				// formats only.
				c.FrameFormat = prop.FrameFormatOneOf{
					frame.FormatYUYV,
					frame.FormatI420,
					frame.FormatI444,
					frame.FormatRGBA,
				}
				c.Width = prop.IntRanged{Max: 640}
				c.Height = prop.IntRanged{Max: 480}
			},
		},
		{
			label: "relaxed",
			video: func(_ *mediadevices.MediaTrackConstraints) {},
		},
	}

	var lastErr error
	for _, a := range attempts {
		stream, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{Video: a.video})
		if err != nil {
			log.Printf("WARN camera: GetUserMedia (%s) failed: %v", a.label, err)
			lastErr = err
			continue
		}

		tracks := stream.GetVideoTracks()
		if len(tracks) == 0 {
			lastErr = fmt.Errorf("stream contains no video track")
			continue
		}
		vt, ok := tracks[0].(*mediadevices.VideoTrack)
		if !ok {
			tracks[0].Close()
			lastErr = fmt.Errorf("unexpected track type %T", tracks[0])
			continue
		}

		d.track = vt
		d.reader = vt.NewReader(true)
		log.Printf("camera: capture started (%s)", a.label)
		return nil
	}

	return classify(lastErr)
}

// Stop releases the device. Idempotent.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.track == nil {
		return
	}
	if err := d.track.Close(); err != nil {
		log.Printf("WARN camera: close: %v", err)
	}
	d.track = nil
	d.reader = nil
}

// Frame reads the next captured frame.
func (d *Device) Frame() (image.Image, error) {
	d.mu.Lock()
	reader := d.reader
	d.mu.Unlock()
	if reader == nil {
		return nil, fmt.Errorf("camera: not started")
	}

	img, release, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("camera: read frame: %w", err)
	}
	release()
	return img, nil
}

// classify maps a driver error onto the display categories.
func classify(err error) error {
	if err == nil {
		return ports.CameraError{Kind: ports.CameraUnknown}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission denied") || strings.Contains(msg, "not permitted"):
		return ports.CameraError{Kind: ports.CameraPermissionDenied, Cause: err}
	case strings.Contains(msg, "no such") || strings.Contains(msg, "failed to find") || strings.Contains(msg, "no device"):
		return ports.CameraError{Kind: ports.CameraNoDevice, Cause: err}
	default:
		return ports.CameraError{Kind: ports.CameraUnknown, Cause: err}
	}
}
