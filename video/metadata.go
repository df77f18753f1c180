package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// GetVideoDuration extracts the video duration in seconds using ffprobe.
func GetVideoDuration(ctx context.Context, videoFile string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries",
		"format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get duration: %w", err)
	}

	duration, err := parseDuration(string(output))
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// Probe extracts the informational metadata sidecar for a video file.
// sourceID is carried through untouched for bookkeeping.
func Probe(ctx context.Context, videoFile, sourceID string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate:format=duration",
		"-of", "default=noprint_wrappers=1", "--", videoFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe: %s", ErrNoVideoStream, firstLine(string(output)))
	}

	meta, err := parseProbeOutput(string(output))
	if err != nil {
		return nil, err
	}
	meta.SourceID = sourceID

	return meta, nil
}

// parseProbeOutput parses "key=value" lines from ffprobe default output.
func parseProbeOutput(output string) (*Metadata, error) {
	meta := &Metadata{}
	seen := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch key {
		case "width":
			if n, err := strconv.Atoi(value); err == nil {
				meta.Width = n
				seen = true
			}
		case "height":
			if n, err := strconv.Atoi(value); err == nil {
				meta.Height = n
				seen = true
			}
		case "duration":
			if d, err := strconv.ParseFloat(value, 64); err == nil {
				meta.Duration = d
			}
		case "avg_frame_rate":
			meta.FPS = parseFrameRate(value)
		}
	}

	if !seen {
		return nil, fmt.Errorf("%w: ffprobe reported no stream dimensions", ErrNoVideoStream)
	}
	return meta, nil
}

// parseFrameRate converts ffprobe's rational "30000/1001" form (or a plain
// number) to frames per second. Unparseable or zero-denominator input
// yields zero.
func parseFrameRate(value string) float64 {
	num, den, ok := strings.Cut(value, "/")
	if !ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return 0
	}

	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// parseDuration parses ffprobe duration output, tolerating trailing noise.
func parseDuration(output string) (float64, error) {
	raw := strings.TrimSpace(strings.SplitN(output, "\n", 2)[0])
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	return duration, nil
}

// firstLine extracts just the first line from a multi-line string.
func firstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		return strings.TrimSpace(lines[0])
	}
	return "no additional information available"
}
