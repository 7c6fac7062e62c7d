package bsp

import (
	"github.com/zyedidia/generic/queue"

	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// SplitStep records one cut of the partition tree.
// Axis is the orientation of the cut line: a Horizontal cut at At=y yields
// a top child ending at y and a bottom child starting at y.
type SplitStep struct {
	Parent geom.Rect        `json:"parent"`
	Axis   geom.Orientation `json:"axis"`
	At     int              `json:"at"`
	First  geom.Rect        `json:"first"`
	Second geom.Rect        `json:"second"`
}

// Partition is the output of Split: the leaf rooms in the order they were
// finalised and every split in the order it was made.
type Partition struct {
	Rooms  []geom.Rect
	Splits []SplitStep
}

// Split recursively partitions bounds into rooms no smaller than
// minWidth x minHeight on the axis they were cut along.
//
// Rectangles are processed breadth-first. A rectangle is split horizontally
// when height >= 2*minHeight and vertically when width >= 2*minWidth; when
// both are possible the axis is a coin flip. When neither is possible the
// rectangle becomes a room.
//
// Non-positive minimums disable splitting and bounds comes back as the only
// room. Empty bounds produce no rooms.
func Split(bounds geom.Rect, minWidth, minHeight int, rng RandomSource) Partition {
	var p Partition
	if bounds.IsEmpty() {
		return p
	}
	if minWidth <= 0 || minHeight <= 0 {
		p.Rooms = []geom.Rect{bounds}
		return p
	}

	work := queue.New[geom.Rect]()
	work.Enqueue(bounds)

	for !work.Empty() {
		rect := work.Dequeue()

		// Written without 2*min so huge minimums cannot overflow
		canSplitH := rect.Height-minHeight >= minHeight
		canSplitV := rect.Width-minWidth >= minWidth
		if !canSplitH && !canSplitV {
			p.Rooms = append(p.Rooms, rect)
			continue
		}

		axis := geom.Vertical
		switch {
		case canSplitH && canSplitV:
			if coinFlip(rng) {
				axis = geom.Horizontal
			}
		case canSplitH:
			axis = geom.Horizontal
		}

		step := splitRect(rect, axis, minWidth, minHeight, rng)
		p.Splits = append(p.Splits, step)

		work.Enqueue(step.First)
		work.Enqueue(step.Second)
	}

	return p
}

// splitRect cuts rect along axis at a random coordinate that leaves both
// children at least the minimum size on that axis. The children share the
// cut line exactly.
func splitRect(rect geom.Rect, axis geom.Orientation, minWidth, minHeight int, rng RandomSource) SplitStep {
	step := SplitStep{Parent: rect, Axis: axis}

	if axis == geom.Horizontal {
		at := intRange(rng, rect.Y+minHeight, rect.YMax()-minHeight)
		step.At = at
		step.First = geom.NewRect(rect.X, rect.Y, rect.Width, at-rect.Y)
		step.Second = geom.NewRect(rect.X, at, rect.Width, rect.YMax()-at)
		return step
	}

	at := intRange(rng, rect.X+minWidth, rect.XMax()-minWidth)
	step.At = at
	step.First = geom.NewRect(rect.X, rect.Y, at-rect.X, rect.Height)
	step.Second = geom.NewRect(at, rect.Y, rect.XMax()-at, rect.Height)
	return step
}
