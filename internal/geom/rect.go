package geom

import "fmt"

// Rect is an axis-aligned rectangle on the integer grid.
// X and Y are the minimum corner; the far edges are exclusive.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// XMin returns the left edge.
func (r Rect) XMin() int { return r.X }

// YMin returns the top edge.
func (r Rect) YMin() int { return r.Y }

// XMax returns the right edge (exclusive).
func (r Rect) XMax() int { return r.X + r.Width }

// YMax returns the bottom edge (exclusive).
func (r Rect) YMax() int { return r.Y + r.Height }

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the area of the rectangle, or 0 if it is empty.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the point (x, y) is inside the rectangle.
// Points on the left and top edges are inside; points on the right and bottom edges are outside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.XMax() && y >= r.Y && y < r.YMax()
}

// Overlaps returns true if the two rectangles share a region of positive area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X < other.XMax() && other.X < r.XMax() &&
		r.Y < other.YMax() && other.Y < r.YMax()
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.Width, r.Height)
}

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
