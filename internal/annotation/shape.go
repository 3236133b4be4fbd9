package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Shape is one region descriptor in source-image pixel coordinates.
//
// The set of implementations is closed: Circle, Ellipse, Polygon and
// Unsupported. Consumers switch on the concrete type.
type Shape interface {
	// Kind returns the annotation name the shape was decoded from.
	Kind() string
	isShape()
}

// Point is a polygon vertex.
type Point struct {
	X float64
	Y float64
}

// Circle is a disc of radius R centered at (CX, CY).
type Circle struct {
	CX, CY, R float64
}

// Ellipse spans the box from its origin corner (CX, CY) to (CX+RX, CY+RY).
type Ellipse struct {
	CX, CY, RX, RY float64
}

// Polygon is a closed outline; vertex order defines the outline.
type Polygon struct {
	Points []Point
}

// Unsupported is a well-formed annotation of a kind the pipeline does not
// draw (rect, point, polyline, ...). It contributes no pixels.
type Unsupported struct {
	Name string
}

func (Circle) Kind() string        { return "circle" }
func (Ellipse) Kind() string       { return "ellipse" }
func (Polygon) Kind() string       { return "polygon" }
func (u Unsupported) Kind() string { return u.Name }

func (Circle) isShape()      {}
func (Ellipse) isShape()     {}
func (Polygon) isShape()     {}
func (Unsupported) isShape() {}

// ErrMalformedShape is wrapped by every ParseShape failure.
var ErrMalformedShape = errors.New("malformed shape")

type shapePayload struct {
	Name       *string   `json:"name"`
	CX         *float64  `json:"cx"`
	CY         *float64  `json:"cy"`
	R          *float64  `json:"r"`
	RX         *float64  `json:"rx"`
	RY         *float64  `json:"ry"`
	AllPointsX []float64 `json:"all_points_x"`
	AllPointsY []float64 `json:"all_points_y"`
}

// ParseShape decodes one region_shape_attributes JSON object.
//
// Recognized names must carry their required numeric fields:
//   - circle: cx, cy, r (r >= 0)
//   - ellipse: cx, cy, rx, ry
//   - polygon: all_points_x and all_points_y of equal, non-zero length
//
// Any other name decodes to Unsupported. A missing name, missing fields or
// non-finite numbers wrap ErrMalformedShape.
func ParseShape(data []byte) (Shape, error) {
	var p shapePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedShape, err)
	}
	if p.Name == nil || *p.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedShape)
	}

	switch *p.Name {
	case "circle":
		if err := requireFields(map[string]*float64{"cx": p.CX, "cy": p.CY, "r": p.R}); err != nil {
			return nil, fmt.Errorf("circle: %w", err)
		}
		if *p.R < 0 {
			return nil, fmt.Errorf("%w: circle: negative radius %g", ErrMalformedShape, *p.R)
		}
		return Circle{CX: *p.CX, CY: *p.CY, R: *p.R}, nil

	case "ellipse":
		if err := requireFields(map[string]*float64{"cx": p.CX, "cy": p.CY, "rx": p.RX, "ry": p.RY}); err != nil {
			return nil, fmt.Errorf("ellipse: %w", err)
		}
		return Ellipse{CX: *p.CX, CY: *p.CY, RX: *p.RX, RY: *p.RY}, nil

	case "polygon":
		lx, ly := len(p.AllPointsX), len(p.AllPointsY)
		if lx != ly {
			return nil, fmt.Errorf("%w: polygon: %d x coordinates but %d y coordinates", ErrMalformedShape, lx, ly)
		}
		if lx == 0 {
			return nil, fmt.Errorf("%w: polygon: no points", ErrMalformedShape)
		}
		points := make([]Point, lx)
		for i := range points {
			x, y := p.AllPointsX[i], p.AllPointsY[i]
			if !finite(x) || !finite(y) {
				return nil, fmt.Errorf("%w: polygon: non-finite point %d", ErrMalformedShape, i)
			}
			points[i] = Point{X: x, Y: y}
		}
		return Polygon{Points: points}, nil

	default:
		return Unsupported{Name: *p.Name}, nil
	}
}

// requireFields checks presence and finiteness, reporting fields in a stable
// order so messages are deterministic.
func requireFields(fields map[string]*float64) error {
	for _, key := range []string{"cx", "cy", "r", "rx", "ry"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if v == nil {
			return fmt.Errorf("%w: missing field %q", ErrMalformedShape, key)
		}
		if !finite(*v) {
			return fmt.Errorf("%w: field %q is not finite", ErrMalformedShape, key)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
