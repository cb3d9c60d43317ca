package ports

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Camera classification kinds for acquisition failures.
const (
	CameraPermissionDenied = "permission-denied"
	CameraNoDevice         = "no-device"
	CameraUnknown          = "unknown"
)

// ErrCamera is the sentinel all camera acquisition failures match.
var ErrCamera = errors.New("camera acquisition failed")

// CameraError classifies why the capture device could not be acquired.
type CameraError struct {
	Kind  string
	Cause error
}

func (e CameraError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("camera: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("camera: %s", e.Kind)
}

func (e CameraError) Is(target error) bool {
	return target == ErrCamera
}

func (e CameraError) Unwrap() error {
	return e.Cause
}

// Camera is the exclusively-owned capture device. Start acquires it
// (preferred constraints first, then a relaxed set) and Stop releases
// every track. Stop must be idempotent. At most one session may hold
// the device; it is never implicitly reacquired.
type Camera interface {
	Start(ctx context.Context) error
	Stop()
	// Frame returns the most recent captured frame. Only valid between
	// Start and Stop.
	Frame() (image.Image, error)
}
