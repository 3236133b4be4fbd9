package mask

import (
	"image"
	"math"
)

// Stats summarizes the foreground of a mask.
type Stats struct {
	// Foreground is the number of foreground pixels.
	Foreground int `json:"foreground"`

	// Total is the number of pixels in the mask.
	Total int `json:"total"`

	// Coverage is Foreground/Total rounded to four decimals.
	Coverage float64 `json:"coverage"`

	// Bounds is the tightest rectangle containing every foreground pixel.
	// It is empty when Foreground is zero.
	Bounds image.Rectangle `json:"bounds"`
}

// Empty reports whether the mask has no foreground.
func (s Stats) Empty() bool { return s.Foreground == 0 }

// Measure computes Stats for a mask. Any non-zero luminance counts as
// foreground, so pass binarized masks.
func Measure(m image.Image) Stats {
	bounds := m.Bounds()
	stats := Stats{Total: bounds.Dx() * bounds.Dy()}

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt

	gray, isGray := m.(*image.Gray)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var on bool
			if isGray {
				on = gray.GrayAt(x, y).Y != 0
			} else {
				r, g, b, _ := m.At(x, y).RGBA()
				on = r|g|b != 0
			}
			if !on {
				continue
			}
			stats.Foreground++
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if stats.Foreground > 0 {
		stats.Bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	}
	if stats.Total > 0 {
		stats.Coverage = math.Round(float64(stats.Foreground)/float64(stats.Total)*10000) / 10000
	}
	return stats
}
