package fingerprint

import (
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"

	"videodedup/video"
)

// strideThreshold is the chunk pixel count above which the color hash
// samples every 4th pixel instead of every pixel. Throughput only; the
// averages are stable either way.
const strideThreshold = 10000

// ColorHash produces one color-dominance fingerprint summarizing a whole
// FrameSet. Multiple frames are stitched into a horizontal strip and
// partitioned into GridSize vertical chunks; each chunk contributes one bit
// per grid row. Only the column axis varies across the strip — the row
// dimension repeats the same chunk verdict.
func ColorHash(frames video.FrameSet) ([]bool, error) {
	if len(frames) == 0 {
		return nil, video.ErrEmptyFrameSet
	}

	if len(frames) == 1 {
		return singleFrameColorHash(frames[0]), nil
	}

	strip := buildStrip(frames)
	chunkWidth := strip.Bounds().Dx() / GridSize
	chunkHeight := strip.Bounds().Dy()

	bits := make([]bool, 0, HashBits)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			bits = append(bits, chunkBit(strip, x*chunkWidth, chunkWidth, chunkHeight))
		}
	}
	return bits, nil
}

// singleFrameColorHash downscales straight to the grid and applies the
// dominant-channel rule per cell.
func singleFrameColorHash(frame image.Image) []bool {
	small := toRGBA(resize.Resize(GridSize, GridSize, frame, resize.Bilinear))

	bits := make([]bool, 0, HashBits)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := small.RGBAAt(small.Bounds().Min.X+x, small.Bounds().Min.Y+y)
			bits = append(bits, dominantChannelBit(uint64(c.R), uint64(c.G), uint64(c.B)))
		}
	}
	return bits
}

// buildStrip resizes every frame to TileSize height preserving aspect ratio
// and concatenates them left to right.
func buildStrip(frames video.FrameSet) *image.RGBA {
	widths := make([]int, len(frames))
	total := 0
	for i, frame := range frames {
		b := frame.Bounds()
		aspect := float64(b.Dx()) / float64(b.Dy())
		widths[i] = int(math.Round(TileSize * aspect))
		total += widths[i]
	}
	if total < 1 {
		total = 1
	}

	strip := image.NewRGBA(image.Rect(0, 0, total, TileSize))
	xOffset := 0
	for i, frame := range frames {
		if widths[i] <= 0 {
			continue
		}
		resized := resize.Resize(uint(widths[i]), TileSize, frame, resize.Bilinear)
		draw.Draw(strip, image.Rect(xOffset, 0, xOffset+widths[i], TileSize),
			resized, resized.Bounds().Min, draw.Src)
		xOffset += widths[i]
	}
	return strip
}

// chunkBit averages the channels over one vertical chunk of the strip and
// applies the dominant-channel rule. A zero-width chunk (pathological
// aspect ratios) degrades to a false bit instead of dividing by zero.
func chunkBit(strip *image.RGBA, xStart, chunkWidth, chunkHeight int) bool {
	if chunkWidth <= 0 || chunkHeight <= 0 {
		return false
	}

	stride := 1
	if chunkWidth*chunkHeight > strideThreshold {
		stride = 4
	}

	xEnd := xStart + chunkWidth
	if w := strip.Bounds().Dx(); xEnd > w {
		xEnd = w
	}

	var rSum, gSum, bSum, count uint64
	for y := 0; y < chunkHeight; y += stride {
		for x := xStart; x < xEnd; x += stride {
			c := strip.RGBAAt(x, y)
			rSum += uint64(c.R)
			gSum += uint64(c.G)
			bSum += uint64(c.B)
			count++
		}
	}

	if count == 0 {
		return false
	}
	return dominantChannelBit(rSum/count, gSum/count, bSum/count)
}

// dominantChannelBit picks the strictly dominant channel and thresholds it
// at the midpoint; without a strict dominant it falls back to average
// brightness.
func dominantChannelBit(r, g, b uint64) bool {
	switch {
	case r > g && r > b:
		return r > 128
	case g > r && g > b:
		return g > 128
	case b > r && b > g:
		return b > 128
	default:
		return (r+g+b)/3 > 128
	}
}

// toRGBA converts any image to RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
