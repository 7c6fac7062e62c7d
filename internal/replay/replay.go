// Package replay turns a generated layout into an ordered list of frames a
// viewer can play back at whatever pace it likes. Building the script does
// no timing of its own.
package replay

import (
	"github.com/lawnchairsociety/bspdungeon/internal/bsp"
	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// FrameKind identifies what a frame shows.
type FrameKind string

const (
	FrameBounds  FrameKind = "bounds"  // The area about to be partitioned
	FrameSplit   FrameKind = "split"   // One rectangle cut in two
	FrameRoom    FrameKind = "room"    // A final room
	FrameEdge    FrameKind = "edge"    // An adjacency and its door
	FrameVisit   FrameKind = "visit"   // A room reached by the connectivity check
	FrameVerdict FrameKind = "verdict" // Final connectivity result
)

// SplitFrame carries one partition step.
type SplitFrame struct {
	Parent geom.Rect `json:"parent"`
	Axis   string    `json:"axis"`
	At     int       `json:"at"`
	First  geom.Rect `json:"first"`
	Second geom.Rect `json:"second"`
}

// EdgeFrame carries an adjacency between two rooms and the door placed on it.
type EdgeFrame struct {
	Index int        `json:"index"`
	A     int        `json:"a"`
	B     int        `json:"b"`
	Door  geom.Point `json:"door"`
}

// VerdictFrame carries the connectivity result.
type VerdictFrame struct {
	Connected bool  `json:"connected"`
	Visited   int   `json:"visited"`
	Rooms     int   `json:"rooms"`
	Unreached []int `json:"unreached,omitempty"`
}

// Frame is one step of a replay. Exactly one payload field is set, matching Kind.
type Frame struct {
	Seq     int           `json:"seq"`
	Kind    FrameKind     `json:"kind"`
	Rect    *geom.Rect    `json:"rect,omitempty"`
	Room    *int          `json:"room,omitempty"`
	Split   *SplitFrame   `json:"split,omitempty"`
	Edge    *EdgeFrame    `json:"edge,omitempty"`
	Verdict *VerdictFrame `json:"verdict,omitempty"`
}

// Build returns the frames for layout in playback order: the bounds, every
// split, every room, every edge with its door, every room in visit order and
// finally the verdict.
func Build(layout *bsp.Layout, result bsp.ConnectivityResult) []Frame {
	rooms := layout.Rooms()
	splits := layout.Splits()
	edges := layout.Edges()
	doors := layout.Doors()

	frames := make([]Frame, 0, 2+len(splits)+len(rooms)+len(edges)+len(result.VisitOrder))
	add := func(f Frame) {
		f.Seq = len(frames)
		frames = append(frames, f)
	}

	bounds := layout.Bounds()
	add(Frame{Kind: FrameBounds, Rect: &bounds})

	for _, s := range splits {
		add(Frame{Kind: FrameSplit, Split: &SplitFrame{
			Parent: s.Parent,
			Axis:   s.Axis.String(),
			At:     s.At,
			First:  s.First,
			Second: s.Second,
		}})
	}

	for i := range rooms {
		index := i
		add(Frame{Kind: FrameRoom, Room: &index, Rect: &rooms[i]})
	}

	for k, e := range edges {
		add(Frame{Kind: FrameEdge, Edge: &EdgeFrame{Index: k, A: e.A, B: e.B, Door: doors[k]}})
	}

	for _, v := range result.VisitOrder {
		room := v
		add(Frame{Kind: FrameVisit, Room: &room})
	}

	add(Frame{Kind: FrameVerdict, Verdict: &VerdictFrame{
		Connected: result.FullyConnected,
		Visited:   len(result.VisitOrder),
		Rooms:     len(rooms),
		Unreached: result.Unreached(len(rooms)),
	}})

	return frames
}

// Count returns how many frames of kind appear in frames.
func Count(frames []Frame, kind FrameKind) int {
	n := 0
	for _, f := range frames {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
