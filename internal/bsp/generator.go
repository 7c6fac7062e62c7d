package bsp

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

var (
	ErrInvalidBounds   = errors.New("bsp: bounds must have positive width and height")
	ErrNilRandomSource = errors.New("bsp: random source is nil")
)

// Layout is the result of one generation run. It is read-only once built;
// every accessor returns a copy.
type Layout struct {
	bounds    geom.Rect
	minWidth  int
	minHeight int
	rooms     []geom.Rect
	splits    []SplitStep
	edges     []Edge
	doors     []geom.Point
}

// Generate partitions bounds into rooms, connects adjacent rooms with one
// door each and returns the layout. Minimums <= 0 are not an error: bounds
// is returned as a single room.
func Generate(bounds geom.Rect, minWidth, minHeight int, rng RandomSource) (*Layout, error) {
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidBounds, bounds)
	}
	if rng == nil {
		return nil, ErrNilRandomSource
	}

	partition := Split(bounds, minWidth, minHeight, rng)

	edges, doors := BuildGraph(partition.Rooms, rng)

	return &Layout{
		bounds:    bounds,
		minWidth:  minWidth,
		minHeight: minHeight,
		rooms:     partition.Rooms,
		splits:    partition.Splits,
		edges:     edges,
		doors:     doors,
	}, nil
}

// CheckConnectivity runs the connectivity check over the layout's rooms and edges.
func (l *Layout) CheckConnectivity() ConnectivityResult {
	return CheckConnectivity(len(l.rooms), l.edges)
}

// Bounds returns the rectangle that was partitioned.
func (l *Layout) Bounds() geom.Rect { return l.bounds }

// MinSize returns the minimum room dimensions the layout was generated with.
func (l *Layout) MinSize() (width, height int) { return l.minWidth, l.minHeight }

// RoomCount returns the number of rooms.
func (l *Layout) RoomCount() int { return len(l.rooms) }

// Rooms returns the rooms; a room's index is its identity in Edges.
func (l *Layout) Rooms() []geom.Rect {
	return append([]geom.Rect(nil), l.rooms...)
}

// Splits returns the partition steps in the order they were made.
func (l *Layout) Splits() []SplitStep {
	return append([]SplitStep(nil), l.splits...)
}

// Edges returns the adjacency edges.
func (l *Layout) Edges() []Edge {
	return append([]Edge(nil), l.edges...)
}

// Doors returns the doors; Doors()[k] sits on the wall of Edges()[k].
func (l *Layout) Doors() []geom.Point {
	return append([]geom.Point(nil), l.doors...)
}

// Room returns room i.
func (l *Layout) Room(i int) (geom.Rect, bool) {
	if i < 0 || i >= len(l.rooms) {
		return geom.Rect{}, false
	}
	return l.rooms[i], true
}

// Door returns the door of edge k and the edge itself.
func (l *Layout) Door(k int) (geom.Point, Edge, bool) {
	if k < 0 || k >= len(l.edges) {
		return geom.Point{}, Edge{}, false
	}
	return l.doors[k], l.edges[k], true
}

// RoomAt returns the index of the room containing (x, y), or -1.
func (l *Layout) RoomAt(x, y int) int {
	for i, r := range l.rooms {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}
