package geom

import (
	"fmt"
	"math"
)

// Point is a 2D point or translation.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Square returns a size whose width and height are both v.
func Square(v float64) Size { return Size{Width: v, Height: v} }

// Scale returns the size multiplied by f on both axes.
func (s Size) Scale(f float64) Size { return Size{Width: s.Width * f, Height: s.Height * f} }

// MinAxis returns the smaller of width and height.
func (s Size) MinAxis() float64 { return math.Min(s.Width, s.Height) }

// MaxAxis returns the larger of width and height.
func (s Size) MaxAxis() float64 { return math.Max(s.Width, s.Height) }

// Along returns the extent of the size along axis.
func (s Size) Along(axis Axis) float64 {
	if axis == Horizontal {
		return s.Width
	}
	return s.Height
}

// Aspect returns width divided by height, or 0 for a zero height.
func (s Size) Aspect() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// Box is an axis-aligned rectangle. Y grows downward, so MinY is the top edge.
type Box struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// NewBox creates a box from its origin and size.
func NewBox(x, y, width, height float64) Box {
	return Box{X: x, Y: y, Width: width, Height: height}
}

func (b Box) MinX() float64 { return b.X }
func (b Box) MidX() float64 { return b.X + b.Width/2 }
func (b Box) MaxX() float64 { return b.X + b.Width }
func (b Box) MinY() float64 { return b.Y }
func (b Box) MidY() float64 { return b.Y + b.Height/2 }
func (b Box) MaxY() float64 { return b.Y + b.Height }

// Origin returns the top-left corner.
func (b Box) Origin() Point { return Point{X: b.X, Y: b.Y} }

// Size returns the box dimensions.
func (b Box) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// Center returns the midpoint of the box.
func (b Box) Center() Point { return Point{X: b.MidX(), Y: b.MidY()} }

// Bounds returns the box moved to the origin, i.e. the box as seen from its
// own coordinate space.
func (b Box) Bounds() Box { return Box{Width: b.Width, Height: b.Height} }

// Offset returns the box translated by d.
func (b Box) Offset(d Point) Box {
	b.X += d.X
	b.Y += d.Y
	return b
}

// Value returns the coordinate or extent of the box for a canonical attribute.
func (b Box) Value(a Attribute) float64 {
	switch a.Canonical() {
	case Left:
		return b.MinX()
	case Right:
		return b.MaxX()
	case CenterX:
		return b.MidX()
	case Width:
		return b.Width
	case Top:
		return b.MinY()
	case Bottom:
		return b.MaxY()
	case CenterY:
		return b.MidY()
	case Height:
		return b.Height
	}
	return 0
}

// Contains reports whether other lies entirely inside b (edges may touch).
func (b Box) Contains(other Box) bool {
	return other.MinX() >= b.MinX() && other.MaxX() <= b.MaxX() &&
		other.MinY() >= b.MinY() && other.MaxY() <= b.MaxY()
}

// Intersect returns the overlapping region of b and other. The result has a
// zero size when the boxes do not overlap.
func (b Box) Intersect(other Box) Box {
	x0 := math.Max(b.MinX(), other.MinX())
	y0 := math.Max(b.MinY(), other.MinY())
	x1 := math.Min(b.MaxX(), other.MaxX())
	y1 := math.Min(b.MaxY(), other.MaxY())
	if x1 < x0 || y1 < y0 {
		return Box{X: x0, Y: y0}
	}
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest box containing both b and other.
func (b Box) Union(other Box) Box {
	x0 := math.Min(b.MinX(), other.MinX())
	y0 := math.Min(b.MinY(), other.MinY())
	x1 := math.Max(b.MaxX(), other.MaxX())
	y1 := math.Max(b.MaxY(), other.MaxY())
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Inset returns the box shrunk by dx on the left and right and dy on the
// top and bottom.
func (b Box) Inset(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, Width: b.Width - 2*dx, Height: b.Height - 2*dy}
}

// UnionAll returns the union of all boxes, or the zero box for none.
func UnionAll(boxes []Box) Box {
	if len(boxes) == 0 {
		return Box{}
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u
}

func (b Box) String() string {
	return fmt.Sprintf("{%g, %g, %g, %g}", b.X, b.Y, b.Width, b.Height)
}
