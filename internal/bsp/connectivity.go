package bsp

import (
	"github.com/zyedidia/generic/mapset"
)

// ConnectivityResult is the verdict of a traversal over the room graph.
type ConnectivityResult struct {
	// VisitOrder lists room indices in the order they were reached, starting at room 0.
	VisitOrder []int
	// EdgeOrder lists edge indices in the order the traversal first examined them.
	EdgeOrder []int
	// FullyConnected is true when every room was reached (vacuously true for no rooms).
	FullyConnected bool
}

// Visited reports whether room was reached.
func (r ConnectivityResult) Visited(room int) bool {
	for _, v := range r.VisitOrder {
		if v == room {
			return true
		}
	}
	return false
}

// Unreached returns the indices in [0, roomCount) that were never visited, in ascending order.
func (r ConnectivityResult) Unreached(roomCount int) []int {
	seen := mapset.New[int]()
	for _, v := range r.VisitOrder {
		seen.Put(v)
	}
	var missing []int
	for i := 0; i < roomCount; i++ {
		if !seen.Has(i) {
			missing = append(missing, i)
		}
	}
	return missing
}

// CheckConnectivity runs a breadth-first search from room 0 over edges and
// reports which rooms are reachable. Edges are undirected; each is examined
// from both of its endpoints. The check is diagnostic only.
func CheckConnectivity(roomCount int, edges []Edge) ConnectivityResult {
	if roomCount <= 0 {
		return ConnectivityResult{FullyConnected: true}
	}

	// incident[r] holds the indices of edges touching r, in edge order.
	incident := make([][]int, roomCount)
	for k, e := range edges {
		if e.A >= 0 && e.A < roomCount {
			incident[e.A] = append(incident[e.A], k)
		}
		if e.B >= 0 && e.B < roomCount && e.B != e.A {
			incident[e.B] = append(incident[e.B], k)
		}
	}

	visited := mapset.New[int]()
	examined := mapset.New[int]()
	result := ConnectivityResult{}

	visited.Put(0)
	result.VisitOrder = append(result.VisitOrder, 0)
	queue := []int{0}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, k := range incident[current] {
			if !examined.Has(k) {
				examined.Put(k)
				result.EdgeOrder = append(result.EdgeOrder, k)
			}

			next, _ := edges[k].Other(current)
			if next < 0 || next >= roomCount || visited.Has(next) {
				continue
			}
			visited.Put(next)
			result.VisitOrder = append(result.VisitOrder, next)
			queue = append(queue, next)
		}
	}

	result.FullyConnected = visited.Size() == roomCount
	return result
}
