package ports

import (
	"context"
	"image"

	"github.com/lumen-labs/moodamp/internal/core/domain"
)

// Detector is the external facial-expression capability. Given a frame
// it returns either a no-face detection or per-label confidences in
// [0,1]. Implementations are substitutable with deterministic stand-ins
// in tests.
type Detector interface {
	Detect(ctx context.Context, frame image.Image) (domain.Detection, error)
}

// DetectorOpener prepares the detection capability for a session.
// Opening may fail (for example the inference service is unreachable);
// that failure is fatal to the session being started and requires an
// explicit restart.
type DetectorOpener interface {
	Open(ctx context.Context) (Detector, error)
}
