// Package mapdump draws a layout as a character grid.
package mapdump

import (
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/bspdungeon/internal/bsp"
	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

const (
	SymbolWall  = '#'
	SymbolFloor = '.'
	SymbolDoor  = 'D'
	SymbolVoid  = ' '
)

var (
	ColorWall  = color.Style{color.FgGray}
	ColorFloor = color.Style{color.FgWhite}
	ColorDoor  = color.Style{color.FgYellow, color.OpBold}
	ColorLabel = color.Style{color.FgCyan, color.OpBold}
)

// Options controls rendering.
type Options struct {
	// Color wraps each symbol in terminal colour codes.
	Color bool
	// Labels writes each room's index in its top-left interior cell when it fits.
	Labels bool
}

type cellKind uint8

const (
	cellVoid cellKind = iota
	cellWall
	cellFloor
	cellDoor
	cellLabel
)

// Render draws layout one character per grid cell, one line per row, with
// the bounds' minimum corner at the top left. Each room's outer ring of
// cells is wall and the rest is floor. A door is drawn on both rooms' wall
// cells either side of the shared boundary.
func Render(layout *bsp.Layout, opts Options) string {
	bounds := layout.Bounds()
	rooms := layout.Rooms()

	kinds := make([][]cellKind, bounds.Height)
	runes := make([][]rune, bounds.Height)
	for y := range kinds {
		kinds[y] = make([]cellKind, bounds.Width)
		runes[y] = make([]rune, bounds.Width)
		for x := range runes[y] {
			runes[y][x] = SymbolVoid
		}
	}

	set := func(x, y int, kind cellKind, r rune) {
		if !bounds.Contains(x, y) {
			return
		}
		kinds[y-bounds.Y][x-bounds.X] = kind
		runes[y-bounds.Y][x-bounds.X] = r
	}

	for _, room := range rooms {
		for y := room.YMin(); y < room.YMax(); y++ {
			for x := room.XMin(); x < room.XMax(); x++ {
				if x == room.XMin() || x == room.XMax()-1 || y == room.YMin() || y == room.YMax()-1 {
					set(x, y, cellWall, SymbolWall)
				} else {
					set(x, y, cellFloor, SymbolFloor)
				}
			}
		}
	}

	for k, e := range layout.Edges() {
		door, _, _ := layout.Door(k)
		wall, ok := geom.SharedWall(rooms[e.A], rooms[e.B])
		if !ok {
			continue
		}
		set(door.X, door.Y, cellDoor, SymbolDoor)
		if wall.Orientation == geom.Vertical {
			set(door.X-1, door.Y, cellDoor, SymbolDoor)
		} else {
			set(door.X, door.Y-1, cellDoor, SymbolDoor)
		}
	}

	if opts.Labels {
		for i, room := range rooms {
			label := strconv.Itoa(i)
			if room.Width-2 < len(label) || room.Height < 3 {
				continue
			}
			for j, r := range label {
				set(room.X+1+j, room.Y+1, cellLabel, r)
			}
		}
	}

	var sb strings.Builder
	for y := range runes {
		for x, r := range runes[y] {
			if opts.Color {
				sb.WriteString(styleFor(kinds[y][x]).Sprint(string(r)))
			} else {
				sb.WriteRune(r)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func styleFor(kind cellKind) color.Style {
	switch kind {
	case cellWall:
		return ColorWall
	case cellFloor:
		return ColorFloor
	case cellDoor:
		return ColorDoor
	case cellLabel:
		return ColorLabel
	default:
		return color.Style{}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FitsTerminal reports whether a map width columns wide fits the terminal
// attached to f. It returns true when f is not a terminal.
func FitsTerminal(f *os.File, width int) bool {
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true
	}
	return width <= cols
}
