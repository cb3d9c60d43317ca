//go:build !linux

// Package camera acquires the local capture device. Capture via
// pion/mediadevices needs platform drivers (V4L2 on Linux); on other
// platforms acquisition reports no device.
package camera

import (
	"context"
	"fmt"
	"image"

	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Device is a stub on platforms without a capture driver.
type Device struct{}

var _ ports.Camera = (*Device)(nil)

// New returns an unacquired device.
func New() *Device { return &Device{} }

func (d *Device) Start(ctx context.Context) error {
	return ports.CameraError{
		Kind:  ports.CameraNoDevice,
		Cause: fmt.Errorf("camera capture is not supported on this platform"),
	}
}

func (d *Device) Stop() {}

func (d *Device) Frame() (image.Image, error) {
	return nil, fmt.Errorf("camera: not started")
}
