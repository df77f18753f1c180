package fingerprint

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"videodedup/video"
)

// Divergence records one sampled-frame position where two videos differ,
// with the bit distance between the per-frame hashes.
type Divergence struct {
	Index    int `json:"frame_index"`
	Distance int `json:"bit_distance"`
}

// DiffReport is the human-auditable result of comparing two videos frame by
// frame. The raw frames are kept so a caller can render side-by-side
// visual diffs. The concatenated fingerprints follow the per-frame scheme,
// which is not bit-compatible with the combined scheme.
type DiffReport struct {
	Divergences []Divergence
	FramesA     video.FrameSet
	FramesB     video.FrameSet
	HashA       Concatenated
	HashB       Concatenated
}

// Comparator runs the per-frame divergence comparison between two videos.
type Comparator struct {
	sampler *video.Sampler
	fetcher video.Fetcher
	frames  int
}

// NewComparator builds a comparator that samples the given number of frames
// per video (fixed-count strategy; non-positive selects the default 10).
func NewComparator(dec video.Decoder, fetcher video.Fetcher, frames int) *Comparator {
	if frames <= 0 {
		frames = video.DefaultFrameCount
	}
	return &Comparator{
		sampler: video.NewSampler(dec),
		fetcher: fetcher,
		frames:  frames,
	}
}

// CompareURLs downloads both videos concurrently into a scoped temp
// directory, hashes them and reports frame divergences. The directory is
// removed on every exit path.
func (c *Comparator) CompareURLs(ctx context.Context, urlA, urlB string) (*DiffReport, error) {
	dir, err := video.NewTempDir("framediff")
	if err != nil {
		return nil, err
	}
	defer dir.Cleanup()

	pathA := dir.Join("a.mp4")
	pathB := dir.Join("b.mp4")

	g, fctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetcher.Fetch(fctx, urlA, pathA) })
	g.Go(func() error { return c.fetcher.Fetch(fctx, urlB, pathB) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return c.CompareFiles(ctx, pathA, pathB)
}

// CompareFiles hashes two local videos frame by frame and reports which
// sampled positions diverge. The two per-video pipelines are independent
// and run concurrently; both complete before comparison.
func (c *Comparator) CompareFiles(ctx context.Context, pathA, pathB string) (*DiffReport, error) {
	var framesA, framesB video.FrameSet
	var hashesA, hashesB []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		framesA, hashesA, err = c.hashVideo(gctx, pathA)
		return err
	})
	g.Go(func() error {
		var err error
		framesB, hashesB, err = c.hashVideo(gctx, pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &DiffReport{
		FramesA: framesA,
		FramesB: framesB,
		HashA:   Concatenated(strings.Join(hashesA, "")),
		HashB:   Concatenated(strings.Join(hashesB, "")),
	}

	n := len(hashesA)
	if len(hashesB) < n {
		n = len(hashesB)
	}
	for i := 0; i < n; i++ {
		if hashesA[i] == hashesB[i] {
			continue
		}
		distance, err := bitDistance(hashesA[i], hashesB[i])
		if err != nil {
			return nil, err
		}
		report.Divergences = append(report.Divergences, Divergence{Index: i, Distance: distance})
	}

	return report, nil
}

func (c *Comparator) hashVideo(ctx context.Context, path string) (video.FrameSet, []string, error) {
	frames, err := c.sampler.SampleCount(ctx, path, c.frames)
	if err != nil {
		return nil, nil, err
	}

	hashes, err := FrameHashes(frames, GridSize)
	if err != nil {
		return nil, nil, err
	}
	return frames, hashes, nil
}
