package fingerprint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"videodedup/video"
)

// VideoHash is a video's combined fingerprint plus its metadata sidecar.
type VideoHash struct {
	Fingerprint Combined        `json:"fingerprint"`
	Meta        *video.Metadata `json:"metadata,omitempty"`
}

// Pipeline runs the full duration-adaptive hash computation:
// probe duration, sample frames, compute the wavelet and color hashes in
// parallel, XOR them into the final fingerprint.
type Pipeline struct {
	sampler *video.Sampler

	// probeDuration is swappable so the sampling logic is testable without
	// ffprobe on PATH.
	probeDuration func(ctx context.Context, path string) (float64, error)
}

// NewPipeline builds a pipeline over the given decoder.
func NewPipeline(dec video.Decoder) *Pipeline {
	return &Pipeline{
		sampler:       video.NewSampler(dec),
		probeDuration: video.GetVideoDuration,
	}
}

// HashFrames computes the combined fingerprint of an already sampled
// FrameSet. The wavelet and color hashes are independent pure functions
// over the same immutable frames and run in parallel.
func HashFrames(frames video.FrameSet) (Combined, error) {
	if len(frames) == 0 {
		return "", video.ErrEmptyFrameSet
	}

	var waveletBits, colorBits []bool
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		waveletBits, err = WaveletHash(frames)
		return err
	})
	g.Go(func() error {
		var err error
		colorBits, err = ColorHash(frames)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return xorBits(waveletBits, colorBits), nil
}

// HashFile computes the combined fingerprint of a local video file.
func (p *Pipeline) HashFile(ctx context.Context, path string) (Combined, error) {
	duration, err := p.probeDuration(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", video.ErrNoVideoStream, err)
	}

	frames, err := p.sampler.SampleAdaptive(ctx, path, duration)
	if err != nil {
		return "", err
	}

	return HashFrames(frames)
}

// HashFileWithMetadata computes the combined fingerprint and attaches the
// probed metadata sidecar.
func (p *Pipeline) HashFileWithMetadata(ctx context.Context, path, sourceID string) (*VideoHash, error) {
	fp, err := p.HashFile(ctx, path)
	if err != nil {
		return nil, err
	}

	meta, err := video.Probe(ctx, path, sourceID)
	if err != nil {
		return nil, err
	}

	return &VideoHash{Fingerprint: fp, Meta: meta}, nil
}

// HashURL downloads a remote video into a scoped temp directory, hashes it
// and cleans up on every exit path.
func (p *Pipeline) HashURL(ctx context.Context, fetcher video.Fetcher, url string) (Combined, error) {
	dir, err := video.NewTempDir("videohash")
	if err != nil {
		return "", err
	}
	defer dir.Cleanup()

	dest := dir.Join("video.mp4")
	if err := fetcher.Fetch(ctx, url, dest); err != nil {
		return "", err
	}

	return p.HashFile(ctx, dest)
}
