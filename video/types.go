package video

import (
	"errors"
	"fmt"
	"image"
)

// Default sampling parameters. These mirror the values used by the
// production dedup pipeline and should not be changed without rehashing
// the stored fingerprints.
const (
	// DefaultFrameCount is the number of frames taken by fixed-count sampling.
	DefaultFrameCount = 10
	// FrameHeight is the height frames are scaled to during extraction.
	FrameHeight = 144
	// MaxFrames caps how many frames the adaptive path feeds into hashing.
	MaxFrames = 60
	// ExtractTimeoutSec is the hard wall-clock limit for one ffmpeg run.
	ExtractTimeoutSec = 300
)

var (
	// ErrNoVideoStream means the container could not be opened or holds no
	// decodable video stream.
	ErrNoVideoStream = errors.New("no decodable video stream found")

	// ErrEmptyFrameSet means decoding succeeded but produced zero usable
	// frames. Callers must treat this as terminal; there is no degraded hash.
	ErrEmptyFrameSet = errors.New("no frames extracted from video")

	// ErrInvalidFrame marks a decoded frame with degenerate dimensions.
	ErrInvalidFrame = errors.New("frame has invalid dimensions")
)

// ProcessError reports a failed external decoder invocation.
type ProcessError struct {
	Cmd     string
	Timeout bool
	Err     error
}

func (e *ProcessError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s timed out after %ds", e.Cmd, ExtractTimeoutSec)
	}
	return fmt.Sprintf("%s failed: %v", e.Cmd, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// FrameSet is an ordered sequence of decoded frames, earliest first.
// A FrameSet handed to a hasher is never empty; samplers return
// ErrEmptyFrameSet instead.
type FrameSet []image.Image

// Metadata is the informational sidecar attached to a computed fingerprint.
// It never influences hash computation.
type Metadata struct {
	SourceID string  `json:"source_id"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
}
