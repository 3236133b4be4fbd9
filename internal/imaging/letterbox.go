package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Resampling filters used by the pipeline. They are fixed so every run
// produces identical output for identical input.
var (
	ImageFilter = imaging.CatmullRom
	MaskFilter  = imaging.NearestNeighbor
)

// PadSquare pastes img centered on a black square canvas whose side is the
// larger of img's width and height.
//
// The paste offset is ((side-width)/2, (side-height)/2) using integer
// division, so for odd differences the extra padding column or row ends up on
// the right or bottom. The content is not scaled, so its aspect ratio is
// preserved exactly.
//
// Returns:
//   - *image.NRGBA: The padded square with bounds starting at (0,0).
func PadSquare(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	side := max(w, h)

	canvas := imaging.New(side, side, color.Black)
	return imaging.Paste(canvas, img, image.Pt((side-w)/2, (side-h)/2))
}

// Letterbox pads img to a square with PadSquare, then scales it uniformly to
// size × size.
//
// Parameters:
//   - img: Source image of any aspect ratio.
//   - size: Output side length in pixels. Must be positive.
//   - filter: Resampling filter; use ImageFilter for images and MaskFilter for
//     masks.
//
// Returns:
//   - *image.NRGBA: A size × size image, regardless of the input aspect ratio.
//   - error: Non-nil if size is not positive or img is empty.
//
// The padding geometry depends only on the input dimensions, so an image and
// a mask of the same size are letterboxed identically even when different
// filters are used.
func Letterbox(img image.Image, size int, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid output size %d: must be positive", size)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot letterbox an empty image")
	}

	padded := PadSquare(img)
	if padded.Bounds().Dx() == size {
		return padded, nil
	}
	return imaging.Resize(padded, size, size, filter), nil
}
