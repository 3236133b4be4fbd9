// Package mask rasterizes shape annotations into binary segmentation masks.
//
// A Canvas has the dimensions of its source image. Shapes are filled one
// after another, so the mask is the union of every shape drawn on it. Geometry
// outside the canvas is clipped, never rejected.
//
// In memory masks are binary: foreground pixels are 255, background pixels
// are 0. Lossy encoders may blur edges once a mask is written to disk.
package mask

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/segment"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/ironsheep/maskgen/internal/annotation"
)

// Threshold is the intensity at or above which an anti-aliased edge pixel
// counts as foreground.
const Threshold uint8 = 128

// Canvas is a mask under construction.
type Canvas struct {
	img *image.RGBA
	gc  *draw2dimg.GraphicContext

	singleRadiusEllipse bool
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithSingleRadiusEllipse makes ellipses use rx for both axes, reproducing
// annotations produced by tooling that ignored ry.
func WithSingleRadiusEllipse() Option {
	return func(c *Canvas) { c.singleRadiusEllipse = true }
}

// NewCanvas returns an all-background canvas of the given size.
func NewCanvas(width, height int, opts ...Option) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// Opaque black: segment.Threshold treats fully transparent pixels as white.
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(color.White)
	gc.SetFillRule(draw2d.FillRuleWinding)

	c := &Canvas{img: img, gc: gc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Draw fills one shape onto the canvas. It reports whether the shape kind is
// drawable; Unsupported shapes are skipped without error.
//
//   - Circle fills the ellipse inscribed in (cx-r, cy-r, cx+r, cy+r).
//   - Ellipse fills the ellipse inscribed in (cx, cy, cx+rx, cy+ry).
//   - Polygon fills the closed outline through its vertices. Polygons with
//     fewer than three vertices enclose no area and are reported as not drawn.
func (c *Canvas) Draw(shape annotation.Shape) (bool, error) {
	c.gc.BeginPath()

	switch s := shape.(type) {
	case annotation.Circle:
		draw2dkit.Circle(c.gc, s.CX, s.CY, s.R)

	case annotation.Ellipse:
		ry := s.RY
		if c.singleRadiusEllipse {
			ry = s.RX
		}
		x0, x1 := math.Min(s.CX, s.CX+s.RX), math.Max(s.CX, s.CX+s.RX)
		y0, y1 := math.Min(s.CY, s.CY+ry), math.Max(s.CY, s.CY+ry)
		draw2dkit.Ellipse(c.gc, (x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)

	case annotation.Polygon:
		if len(s.Points) == 0 {
			return false, fmt.Errorf("polygon has no points")
		}
		if len(s.Points) < 3 {
			return false, nil
		}
		c.gc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			c.gc.LineTo(p.X, p.Y)
		}
		c.gc.Close()

	case annotation.Unsupported:
		return false, nil

	default:
		return false, fmt.Errorf("unknown shape type %T", shape)
	}

	c.gc.Fill()
	return true, nil
}

// DrawAll fills shapes in order and returns how many were drawable.
func (c *Canvas) DrawAll(shapes []annotation.Shape) (int, error) {
	drawn := 0
	for i, shape := range shapes {
		ok, err := c.Draw(shape)
		if err != nil {
			return drawn, fmt.Errorf("shape %d (%s): %w", i, shape.Kind(), err)
		}
		if ok {
			drawn++
		}
	}
	return drawn, nil
}

// Mask returns the binary mask drawn so far.
func (c *Canvas) Mask() *image.Gray {
	return Binarize(c.img)
}

// Binarize maps every pixel whose luminance is at least Threshold to 255 and
// everything else to 0. img must be opaque.
func Binarize(img image.Image) *image.Gray {
	return segment.Threshold(img, Threshold)
}
