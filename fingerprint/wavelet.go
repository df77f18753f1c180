package fingerprint

import (
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/nfnt/resize"

	"videodedup/video"
)

// TileSize is the side of each collage tile in the multi-frame wavelet hash.
const TileSize = 144

// WaveletHash produces one structural fingerprint summarizing a whole
// FrameSet. A single frame is hashed directly on the small grid; multiple
// frames are tiled into a square collage first so the hash captures coarse
// spatial and temporal layout in one pass. Bits are thresholded against the
// grid's own median, which is robust to global brightness shifts.
func WaveletHash(frames video.FrameSet) ([]bool, error) {
	if len(frames) == 0 {
		return nil, video.ErrEmptyFrameSet
	}

	if len(frames) == 1 {
		small := toGray(resize.Resize(GridSize, GridSize, frames[0], resize.Bilinear))
		return medianThreshold(small), nil
	}

	gridSide := int(math.Ceil(math.Sqrt(float64(len(frames)))))
	collage := image.NewRGBA(image.Rect(0, 0, gridSide*TileSize, gridSide*TileSize))

	for i, frame := range frames {
		tile := resize.Resize(TileSize, TileSize, frame, resize.Bilinear)
		x := (i % gridSide) * TileSize
		y := (i / gridSide) * TileSize
		draw.Draw(collage, image.Rect(x, y, x+TileSize, y+TileSize), tile, tile.Bounds().Min, draw.Src)
	}

	small := toGray(resize.Resize(GridSize, GridSize, toGray(collage), resize.Bilinear))
	return medianThreshold(small), nil
}

// medianThreshold sets one bit per grid pixel: luminance >= the grid's
// median, row-major order.
func medianThreshold(gray *image.Gray) []bool {
	bounds := gray.Bounds()
	pixels := make([]uint8, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixels = append(pixels, gray.GrayAt(x, y).Y)
		}
	}

	sorted := make([]uint8, len(pixels))
	copy(sorted, pixels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	median := sorted[len(sorted)/2]

	bits := make([]bool, len(pixels))
	for i, p := range pixels {
		bits[i] = p >= median
	}
	return bits
}

// toGray converts any image to 8-bit luminance.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
