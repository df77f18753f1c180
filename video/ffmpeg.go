package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // frame files are extracted as JPEG
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FFmpegDecoder implements Decoder by shelling out to ffmpeg/ffprobe.
// Extracted frames pass through a scoped temp directory that is removed on
// every exit path.
type FFmpegDecoder struct{}

// NewFFmpegDecoder returns a subprocess-backed decoder.
func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{}
}

// CountFrames reports the frame count of the best video stream. ffprobe
// often reports "N/A" for nb_frames, so we fall back to counting packets.
func (d *FFmpegDecoder) CountFrames(ctx context.Context, path string) (int, error) {
	out, err := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=nb_frames", "-of", "default=noprint_wrappers=1:nokey=1", "--", path).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoVideoStream, err)
	}

	if n, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil && n > 0 {
		return n, nil
	}

	out, err = exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-count_packets", "-show_entries", "stream=nb_read_packets",
		"-of", "default=noprint_wrappers=1:nokey=1", "--", path).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoVideoStream, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable packet count", ErrNoVideoStream)
	}
	return n, nil
}

// ExtractAtIndices decodes exactly the frames at the given indices using an
// ffmpeg select filter.
func (d *FFmpegDecoder) ExtractAtIndices(ctx context.Context, path string, indices []int) (FrameSet, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyFrameSet
	}

	terms := make([]string, len(indices))
	for i, idx := range indices {
		terms[i] = fmt.Sprintf("eq(n\\,%d)", idx)
	}
	filter := fmt.Sprintf("select=%s", strings.Join(terms, "+"))

	return d.runExtract(ctx, path, filter)
}

// ExtractAtRate decodes frames at the given frames-per-second rate, scaled
// to the given height with aspect ratio preserved.
func (d *FFmpegDecoder) ExtractAtRate(ctx context.Context, path string, fps float64, height int) (FrameSet, error) {
	filter := fmt.Sprintf("fps=%g,scale=-1:%d", fps, height)
	return d.runExtract(ctx, path, filter)
}

// runExtract writes filtered frames to a scoped temp directory as JPEG and
// decodes them back in temporal order.
func (d *FFmpegDecoder) runExtract(ctx context.Context, path, filter string) (FrameSet, error) {
	dir, err := NewTempDir("videodedup")
	if err != nil {
		return nil, err
	}
	defer dir.Cleanup()

	ctx, cancel := context.WithTimeout(ctx, ExtractTimeoutSec*time.Second)
	defer cancel()

	pattern := dir.Join("frame_%04d.jpg")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-t", strconv.Itoa(ExtractTimeoutSec),
		"-i", path,
		"-threads", "0",
		"-vf", filter,
		"-vsync", "0",
		"-q:v", "2",
		pattern)

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ProcessError{Cmd: "ffmpeg", Timeout: true, Err: err}
		}
		return nil, &ProcessError{Cmd: "ffmpeg", Err: err}
	}

	frames, err := loadFrames(dir.Path())
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrEmptyFrameSet
	}
	return frames, nil
}

// loadFrames decodes every extracted frame file in name order, which matches
// temporal order because of the %04d output pattern.
func loadFrames(dir string) (FrameSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".jpg" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make(FrameSet, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			// A single broken frame file is skipped; an all-broken set
			// surfaces as ErrEmptyFrameSet upstream.
			continue
		}
		frames = append(frames, img)
	}

	return frames, nil
}
