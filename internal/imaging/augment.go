package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Transform is one fixed geometric augmentation.
type Transform struct {
	// Prefix is prepended to the base file name of the variant.
	Prefix string

	// Apply produces the transformed image. It is an exact pixel permutation.
	Apply func(image.Image) *image.NRGBA
}

// Transforms is the augmentation set, in output order. Rotations are
// counter-clockwise about the canvas center.
var Transforms = []Transform{
	{Prefix: "rotated_90_", Apply: imaging.Rotate90},
	{Prefix: "rotated_180_", Apply: imaging.Rotate180},
	{Prefix: "rotated_270_", Apply: imaging.Rotate270},
	{Prefix: "mirrored_", Apply: imaging.FlipH},
	{Prefix: "flipped_", Apply: imaging.FlipV},
}

// Pair is an image and its mask under one name.
type Pair struct {
	Name  string
	Image image.Image
	Mask  image.Image
}

// Augment applies every transform in Transforms to both img and mask.
//
// Parameters:
//   - img: The resized image.
//   - mask: The resized mask, same dimensions as img.
//   - baseName: File name of the un-augmented pair, e.g. "img1.png".
//
// Returns:
//   - []Pair: One pair per transform, in Transforms order, named
//     Prefix+baseName. The un-augmented pair is not included.
//
// The same transform function is applied to image and mask, so a pixel at
// (x, y) in img and in mask lands at the same coordinates in both outputs.
func Augment(img, mask image.Image, baseName string) []Pair {
	pairs := make([]Pair, 0, len(Transforms))
	for _, t := range Transforms {
		pairs = append(pairs, Pair{
			Name:  t.Prefix + baseName,
			Image: t.Apply(img),
			Mask:  t.Apply(mask),
		})
	}
	return pairs
}

// Variants returns the un-augmented pair followed by Augment's pairs.
func Variants(img, mask image.Image, baseName string) []Pair {
	return append([]Pair{{Name: baseName, Image: img, Mask: mask}}, Augment(img, mask, baseName)...)
}
