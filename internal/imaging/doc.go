// Package imaging provides the geometric image operations of the mask dataset
// pipeline: loading and saving by file extension, letterbox resizing and the
// fixed augmentation set.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Pairing
//
// Every function here is pure: its output depends only on the input pixels
// and parameters. Applying the same operation to an image and to its mask
// therefore moves corresponding pixels to the same output coordinates, which
// is what keeps image/mask pairs aligned through resize and augmentation.
//
// # Interpolation
//
// Images are resampled with ImageFilter (Catmull-Rom bicubic). Masks are
// resampled with MaskFilter (nearest neighbour) so that they stay binary.
// Rotations are multiples of 90 degrees and flips are exact permutations of
// pixels, so augmentation never resamples.
//
// # Formats
//
// Open decodes PNG, JPEG, GIF, TIFF, BMP and WebP. Save selects the encoder
// from the output file extension; WebP output is always lossless.
//
// # Thread Safety
//
// Functions are stateless and can be called concurrently on different images.
package imaging
