package ports

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// Capture Ports: camera and face-expression detection
//
// Both the camera device and the detection model live outside this module.
// The loop acquires them together and releases them together; adapters must
// make Close safe to call on a camera that failed to open.
// =============================================================================

// ErrCapabilityUnavailable marks a failure that makes the capture pipeline
// unusable: camera permission denied, model load failure, detector gone.
// It is fatal to the detection loop and is never retried automatically.
var ErrCapabilityUnavailable = errors.New("capture capability unavailable")

// ErrNoFrame is returned by Camera.Frame when no frame is ready yet
// (stream paused, not started, or waiting for data). The tick is skipped.
var ErrNoFrame = errors.New("no frame available")

// Frame is one captured video frame. Data is adapter-specific: the detector
// paired with a camera knows how to read it.
type Frame struct {
	Seq      uint64
	Captured time.Time
	Data     []byte
}

// Camera produces frames from a capture device.
type Camera interface {
	// Open acquires the device. Errors should wrap ErrCapabilityUnavailable.
	Open(ctx context.Context) error

	// Frame returns the most recent frame. It returns ErrNoFrame when nothing
	// is ready, and io.EOF when the stream has ended for good.
	Frame() (Frame, error)

	// Close releases the device. Safe to call multiple times, and safe to
	// call after a failed Open.
	Close() error
}

// Detector is the external face-expression detection capability.
type Detector interface {
	// Load prepares the model. Called once per loop run, before the camera
	// is opened. Errors should wrap ErrCapabilityUnavailable.
	Load(ctx context.Context) error

	// Detect returns zero or more faces found in the frame, in detector order.
	Detect(ctx context.Context, frame Frame) ([]Face, error)
}

// Face is one detected face. Expressions maps expression name to a
// confidence score in [0,1]. Names are untyped at this boundary; the sampler
// normalizes them.
type Face struct {
	Expressions map[string]float64 `json:"expressions"`
}
