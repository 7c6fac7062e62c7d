// Package export renders a generated layout into formats meant for people and
// external viewers. Nothing here is read back by the generator.
package export

import (
	"encoding/json"
	"io"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/bspdungeon/internal/bsp"
	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// RoomEntry is one room and the number of doors leading out of it.
type RoomEntry struct {
	Index int       `json:"index" yaml:"index"`
	Rect  geom.Rect `json:"rect" yaml:"rect"`
	Doors int       `json:"doors" yaml:"doors"`
}

// EdgeEntry is one adjacency with its door.
type EdgeEntry struct {
	A    int        `json:"a" yaml:"a"`
	B    int        `json:"b" yaml:"b"`
	Door geom.Point `json:"door" yaml:"door"`
}

// Report is a flattened, serialisable view of a layout and its connectivity.
type Report struct {
	Seed       int64       `json:"seed" yaml:"seed"`
	Bounds     geom.Rect   `json:"bounds" yaml:"bounds"`
	MinWidth   int         `json:"min_width" yaml:"min_width"`
	MinHeight  int         `json:"min_height" yaml:"min_height"`
	Rooms      []RoomEntry `json:"rooms" yaml:"rooms"`
	Edges      []EdgeEntry `json:"edges" yaml:"edges"`
	Connected  bool        `json:"connected" yaml:"connected"`
	VisitOrder []int       `json:"visit_order" yaml:"visit_order"`
	Unreached  []int       `json:"unreached,omitempty" yaml:"unreached,omitempty"`

	// SharedDoors lists door points used by more than one edge. It is only
	// non-empty when a wall had no free point left for a later door.
	SharedDoors []geom.Point `json:"shared_doors,omitempty" yaml:"shared_doors,omitempty"`
}

// NewReport flattens layout and result. seed is recorded as given so the
// layout can be regenerated.
func NewReport(layout *bsp.Layout, result bsp.ConnectivityResult, seed int64) *Report {
	rooms := layout.Rooms()
	edges := layout.Edges()
	doors := layout.Doors()
	minWidth, minHeight := layout.MinSize()

	report := &Report{
		Seed:       seed,
		Bounds:     layout.Bounds(),
		MinWidth:   minWidth,
		MinHeight:  minHeight,
		Rooms:      make([]RoomEntry, len(rooms)),
		Edges:      make([]EdgeEntry, len(edges)),
		Connected:  result.FullyConnected,
		VisitOrder: append([]int{}, result.VisitOrder...),
		Unreached:  result.Unreached(len(rooms)),
	}

	for i, r := range rooms {
		report.Rooms[i] = RoomEntry{Index: i, Rect: r}
	}

	seen := mapset.New[geom.Point]()
	shared := mapset.New[geom.Point]()
	for k, e := range edges {
		report.Edges[k] = EdgeEntry{A: e.A, B: e.B, Door: doors[k]}
		report.Rooms[e.A].Doors++
		report.Rooms[e.B].Doors++

		if seen.Has(doors[k]) && !shared.Has(doors[k]) {
			shared.Put(doors[k])
			report.SharedDoors = append(report.SharedDoors, doors[k])
		}
		seen.Put(doors[k])
	}

	return report
}

// WriteJSON writes report as indented JSON.
func WriteJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
