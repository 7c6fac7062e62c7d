package bsp

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// Edge is an undirected adjacency between two rooms, identified by their
// indices in the room list. A is always less than B.
type Edge struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

// Other returns the endpoint of e that is not room, and whether room is on e at all.
func (e Edge) Other(room int) (int, bool) {
	switch room {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	default:
		return 0, false
	}
}

func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e.A, e.B)
}

// BuildGraph finds every pair of rooms sharing a wall of positive length and
// places one door on each shared wall. doors[k] belongs to edges[k].
//
// Pairs are visited in i<j order, so for a fixed random sequence the edge
// and door lists are reproducible. A door never lands on a point already
// taken by an earlier door unless its wall has no free point left.
//
// rng is required; with a nil source no edges are built.
func BuildGraph(rooms []geom.Rect, rng RandomSource) ([]Edge, []geom.Point) {
	var edges []Edge
	var doors []geom.Point
	if rng == nil {
		return nil, nil
	}
	used := mapset.New[geom.Point]()

	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			wall, ok := geom.SharedWall(rooms[i], rooms[j])
			if !ok {
				continue
			}
			door := placeDoor(wall, used, rng)
			used.Put(door)
			edges = append(edges, Edge{A: i, B: j})
			doors = append(doors, door)
		}
	}

	return edges, doors
}

// placeDoor picks a uniform position among the wall points not in used.
// T-junctions are the only place two walls share a point.
func placeDoor(wall geom.Wall, used mapset.Set[geom.Point], rng RandomSource) geom.Point {
	free := make([]int, 0, wall.Length())
	for along := wall.From; along < wall.To; along++ {
		if !used.Has(wall.PointAt(along)) {
			free = append(free, along)
		}
	}
	if len(free) == 0 {
		return wall.PointAt(intRange(rng, wall.From, wall.To-1))
	}
	return wall.PointAt(free[intRange(rng, 0, len(free)-1)])
}
