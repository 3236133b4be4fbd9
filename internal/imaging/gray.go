package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// ITU-R 601-2 luma weights, as used for 8-bit "L" images.
const (
	LumaRed   = 0.299
	LumaGreen = 0.587
	LumaBlue  = 0.114
)

// Luminance converts img to a single-channel 8-bit image using the
// ITU-R 601-2 luma transform.
//
// Returns:
//   - *image.Gray: Same dimensions as img, bounds starting at (0,0).
func Luminance(img image.Image) *image.Gray {
	weighted := effect.GrayscaleWithWeights(img, LumaRed, LumaGreen, LumaBlue)
	bounds := weighted.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		row := weighted.Pix[y*weighted.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			// R, G and B carry the same value.
			gray.Pix[y*gray.Stride+x] = row[x*4]
		}
	}
	return gray
}
