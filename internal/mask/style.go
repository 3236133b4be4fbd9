package mask

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Storage modes for persisted masks.
const (
	// ModeGray stores masks as single-channel 8-bit images.
	ModeGray = "gray"
	// ModeRGB stores masks as three-channel images with the foreground painted
	// in the style colour.
	ModeRGB = "rgb"
)

// Style converts binary masks into the image written to disk.
type Style struct {
	mode       string
	foreground color.NRGBA
}

// NewStyle returns a Style for mode. hex is the foreground colour used by
// ModeRGB ("#ffffff" when empty).
func NewStyle(mode, hex string) (*Style, error) {
	if hex == "" {
		hex = "#ffffff"
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid mask color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()

	switch mode {
	case ModeGray, ModeRGB:
	default:
		return nil, fmt.Errorf("unknown mask mode %q", mode)
	}
	return &Style{mode: mode, foreground: color.NRGBA{R: r, G: g, B: b, A: 255}}, nil
}

// Mode returns the storage mode.
func (s *Style) Mode() string { return s.mode }

// Render binarizes m and lays it out for storage.
func (s *Style) Render(m image.Image) image.Image {
	bin := Binarize(m)
	if s.mode == ModeGray {
		return bin
	}

	bounds := bin.Bounds()
	out := image.NewNRGBA(bounds)
	background := color.NRGBA{A: 255}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if bin.GrayAt(x, y).Y != 0 {
				out.SetNRGBA(x, y, s.foreground)
			} else {
				out.SetNRGBA(x, y, background)
			}
		}
	}
	return out
}
