// Package fingerprint derives compact perceptual fingerprints from sampled
// video frames and compares them to decide whether two videos are
// near-duplicates.
//
// Two whole-video fingerprint schemes coexist and are deliberately distinct
// types: Combined (wavelet hash XOR color hash, constant 64 bits) and
// Concatenated (per-frame hashes joined end to end, frames x 64 bits). They
// are not bit-compatible and cannot be compared to each other.
package fingerprint

import (
	"errors"
	"fmt"
)

// GridSize is the hash grid side; fingerprints are GridSize*GridSize bits.
const GridSize = 8

// HashBits is the length of a single-frame or combined fingerprint.
const HashBits = GridSize * GridSize

// DefaultThreshold is the similarity percentage at or above which two
// videos are considered duplicates.
const DefaultThreshold = 85.0

// ErrLengthMismatch is returned when two fingerprints of unequal length are
// compared. Comparing unequal lengths is a programming error, never a
// legitimate similarity result.
var ErrLengthMismatch = errors.New("fingerprints have different lengths")

// Combined is the XOR of a video's wavelet and color hashes, rendered as a
// string of '0'/'1' characters.
type Combined string

// Concatenated is the per-frame fingerprint scheme: one GridSize*GridSize
// hash per sampled frame, joined in temporal order.
type Concatenated string

// Distance returns the hamming distance to another combined fingerprint.
func (a Combined) Distance(b Combined) (int, error) {
	return bitDistance(string(a), string(b))
}

// Similarity returns the percentage of matching bits, in [0, 100].
func (a Combined) Similarity(b Combined) (float64, error) {
	return similarity(string(a), string(b))
}

// IsDuplicate reports whether the two fingerprints are at least threshold
// percent similar. A non-positive threshold selects DefaultThreshold.
func (a Combined) IsDuplicate(b Combined, threshold float64) (bool, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	sim, err := a.Similarity(b)
	if err != nil {
		return false, err
	}
	return sim >= threshold, nil
}

// Distance returns the hamming distance to another concatenated fingerprint.
func (a Concatenated) Distance(b Concatenated) (int, error) {
	return bitDistance(string(a), string(b))
}

// Similarity returns the percentage of matching bits, in [0, 100].
func (a Concatenated) Similarity(b Concatenated) (float64, error) {
	return similarity(string(a), string(b))
}

// bitDistance counts differing positions of two equal-length bit strings.
func bitDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}

	distance := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance, nil
}

func similarity(a, b string) (float64, error) {
	distance, err := bitDistance(a, b)
	if err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty fingerprint", ErrLengthMismatch)
	}
	return float64(len(a)-distance) / float64(len(a)) * 100, nil
}

// xorBits combines the wavelet and color bit vectors into the final
// fingerprint. Both inputs are always HashBits long.
func xorBits(a, b []bool) Combined {
	buf := make([]byte, len(a))
	for i := range a {
		if a[i] != b[i] {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return Combined(buf)
}
