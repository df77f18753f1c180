package video

import (
	"context"
	"math"

	"github.com/samber/lo"
)

// Decoder is the external decode capability the sampler drives. The real
// implementation shells out to ffmpeg; tests inject an in-memory fake.
type Decoder interface {
	// CountFrames reports the number of frames in the best video stream.
	CountFrames(ctx context.Context, path string) (int, error)

	// ExtractAtIndices decodes exactly the frames at the given zero-based
	// indices, in temporal order.
	ExtractAtIndices(ctx context.Context, path string, indices []int) (FrameSet, error)

	// ExtractAtRate decodes frames at the given rate (frames per second),
	// scaled to the given height with aspect ratio preserved.
	ExtractAtRate(ctx context.Context, path string, fps float64, height int) (FrameSet, error)
}

// FrameIndices returns k evenly spaced frame indices over a clip of
// total frames: round(i * (total-1)/(k-1)). When the clip has at most one
// frame every index collapses to zero. Duplicate indices (short clips) are
// removed, so fewer than k indices may be returned.
func FrameIndices(total, k int) []int {
	if k <= 0 {
		return nil
	}

	interval := 0.0
	if total > 1 && k > 1 {
		interval = float64(total-1) / float64(k-1)
	}

	indices := make([]int, 0, k)
	for i := 0; i < k; i++ {
		indices = append(indices, int(math.Round(float64(i)*interval)))
	}
	return lo.Uniq(indices)
}

// RateForDuration picks the adaptive extraction rate: short clips are
// sampled densely, long clips sparsely.
func RateForDuration(duration float64) float64 {
	switch {
	case duration < 3:
		return 0.8
	case duration < 5:
		return 0.5
	case duration < 15:
		return 0.3
	case duration < 30:
		return 0.1
	default:
		return 0.05
	}
}

// subsampleToCap uniformly thins frames down to at most limit entries by
// keeping every (len/limit)-th frame.
func subsampleToCap(frames FrameSet, limit int) FrameSet {
	if limit <= 0 || len(frames) <= limit {
		return frames
	}

	step := len(frames) / limit
	kept := make(FrameSet, 0, limit)
	for i := 0; i < len(frames) && len(kept) < limit; i += step {
		kept = append(kept, frames[i])
	}
	return kept
}

// Sampler turns a video into a small deterministic set of still frames.
type Sampler struct {
	dec Decoder
}

// NewSampler wraps a Decoder.
func NewSampler(dec Decoder) *Sampler {
	return &Sampler{dec: dec}
}

// SampleCount extracts k evenly spaced frames (fixed-count strategy).
func (s *Sampler) SampleCount(ctx context.Context, path string, k int) (FrameSet, error) {
	if k <= 0 {
		k = DefaultFrameCount
	}

	total, err := s.dec.CountFrames(ctx, path)
	if err != nil {
		return nil, err
	}

	frames, err := s.dec.ExtractAtIndices(ctx, path, FrameIndices(total, k))
	if err != nil {
		return nil, err
	}

	frames = validFrames(frames)
	if len(frames) == 0 {
		return nil, ErrEmptyFrameSet
	}
	return frames, nil
}

// SampleAdaptive extracts frames at a duration-dependent rate and thins the
// result to MaxFrames (duration-adaptive strategy).
func (s *Sampler) SampleAdaptive(ctx context.Context, path string, duration float64) (FrameSet, error) {
	frames, err := s.dec.ExtractAtRate(ctx, path, RateForDuration(duration), FrameHeight)
	if err != nil {
		return nil, err
	}

	frames = validFrames(frames)
	if len(frames) == 0 {
		return nil, ErrEmptyFrameSet
	}
	return subsampleToCap(frames, MaxFrames), nil
}

// validFrames drops frames with zero width or height. Degenerate frames are
// skipped when others remain; the caller escalates an empty result.
func validFrames(frames FrameSet) FrameSet {
	kept := make(FrameSet, 0, len(frames))
	for _, f := range frames {
		if f == nil {
			continue
		}
		b := f.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
