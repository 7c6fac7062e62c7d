package geom

// Orientation is the direction a wall runs in, or the axis a rectangle is cut along.
type Orientation int

const (
	// Vertical walls separate rooms lying side by side (constant x).
	Vertical Orientation = iota
	// Horizontal walls separate rooms stacked on top of each other (constant y).
	Horizontal
)

// String returns the string representation of an Orientation
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Wall is a boundary segment shared by two rectangles.
// At is the fixed coordinate (x for vertical walls, y for horizontal ones)
// and [From, To) is the span along the other axis.
type Wall struct {
	Orientation Orientation
	At          int
	From, To    int
}

// Length returns the number of grid units the wall spans.
func (w Wall) Length() int {
	return w.To - w.From
}

// PointAt returns the point on the wall line at offset along the wall's span axis.
func (w Wall) PointAt(along int) Point {
	if w.Orientation == Vertical {
		return Point{X: w.At, Y: along}
	}
	return Point{X: along, Y: w.At}
}

// Contains returns true if p lies on the wall.
func (w Wall) Contains(p Point) bool {
	if w.Orientation == Vertical {
		return p.X == w.At && p.Y >= w.From && p.Y < w.To
	}
	return p.Y == w.At && p.X >= w.From && p.X < w.To
}

// SharedWall returns the boundary segment shared by a and b, if any.
// The vertical test runs first, so at most one wall is reported per pair.
// A shared segment must have positive length; corner contact does not count.
func SharedWall(a, b Rect) (Wall, bool) {
	if a.IsEmpty() || b.IsEmpty() {
		return Wall{}, false
	}

	if a.XMax() == b.XMin() || b.XMax() == a.XMin() {
		from, to := max(a.YMin(), b.YMin()), min(a.YMax(), b.YMax())
		if from < to {
			at := a.XMax()
			if b.XMax() == a.XMin() {
				at = a.XMin()
			}
			return Wall{Orientation: Vertical, At: at, From: from, To: to}, true
		}
	}

	if a.YMax() == b.YMin() || b.YMax() == a.YMin() {
		from, to := max(a.XMin(), b.XMin()), min(a.XMax(), b.XMax())
		if from < to {
			at := a.YMax()
			if b.YMax() == a.YMin() {
				at = a.YMin()
			}
			return Wall{Orientation: Horizontal, At: at, From: from, To: to}, true
		}
	}

	return Wall{}, false
}
