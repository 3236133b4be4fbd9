package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUnsupportedFormat is returned by Save and CheckFormat for file extensions
// no encoder is registered for.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SaveOptions controls encoding.
type SaveOptions struct {
	// JPEGQuality is used for .jpg/.jpeg output (1-100). Zero means 95.
	JPEGQuality int
}

// Open loads and decodes an image file.
//
// Parameters:
//   - path: Path to the image. Supported formats are PNG, JPEG, GIF, TIFF,
//     BMP and WebP.
//
// Returns:
//   - image.Image: The decoded image. JPEG files are rotated according to
//     their EXIF orientation tag so that annotation coordinates, which refer to
//     the displayed image, line up with the pixels.
//   - error: Non-nil if the file cannot be opened or decoded.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// CheckFormat reports whether Save can encode a file named filename.
//
// Format detection is based on the extension (case-insensitive):
//   - ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp"
//   - ".webp"
func CheckFormat(filename string) error {
	if isWebP(filename) {
		return nil
	}
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	return nil
}

// Save encodes img to path, choosing the encoder from the file extension.
//
// Parameters:
//   - img: The image to write.
//   - path: Destination file. Existing files are overwritten; the parent
//     directory must exist.
//   - opts: Encoder options.
//
// # Errors
//
//   - ErrUnsupportedFormat (wrapped) if the extension is unknown
//   - Any error from creating or writing the file
func Save(img image.Image, path string, opts SaveOptions) error {
	if err := CheckFormat(path); err != nil {
		return err
	}

	if isWebP(path) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	quality := opts.JPEGQuality
	if quality == 0 {
		quality = 95
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func isWebP(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".webp")
}
