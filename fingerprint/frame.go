package fingerprint

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"videodedup/video"
)

// FrameHash computes the perceptual hash of a single frame on an n x n
// grid, rendered as a bit string, most significant bit first. n defaults to
// GridSize. The result is deterministic: identical pixels always produce an
// identical fingerprint.
func FrameHash(img image.Image, n int) (string, error) {
	if n <= 0 {
		n = GridSize
	}

	if img == nil {
		return "", video.ErrInvalidFrame
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", fmt.Errorf("%w: %dx%d", video.ErrInvalidFrame, bounds.Dx(), bounds.Dy())
	}

	hash, err := goimagehash.ExtPerceptionHash(img, n, n)
	if err != nil {
		return "", fmt.Errorf("failed to compute frame hash: %w", err)
	}

	return renderBits(hash.GetHash(), n*n), nil
}

// renderBits writes the first n bits of the packed hash words as '0'/'1'
// characters, most significant bit of each word first.
func renderBits(words []uint64, n int) string {
	buf := make([]byte, 0, n)
	for i := 0; i < n && i/64 < len(words); i++ {
		word := words[i/64]
		if word>>(63-uint(i%64))&1 == 1 {
			buf = append(buf, '1')
		} else {
			buf = append(buf, '0')
		}
	}
	return string(buf)
}

// FrameHashes computes one fingerprint per frame, preserving order.
func FrameHashes(frames video.FrameSet, n int) ([]string, error) {
	if len(frames) == 0 {
		return nil, video.ErrEmptyFrameSet
	}

	hashes := make([]string, 0, len(frames))
	for _, frame := range frames {
		h, err := FrameHash(frame, n)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}
