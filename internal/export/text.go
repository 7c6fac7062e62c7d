package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes a plain-text summary of report for reading in a terminal.
func WriteText(w io.Writer, report *Report) error {
	var sb strings.Builder

	b := report.Bounds
	fmt.Fprintf(&sb, "Dungeon %dx%d at (%d,%d), minimum room %dx%d, seed %d\n",
		b.Width, b.Height, b.X, b.Y, report.MinWidth, report.MinHeight, report.Seed)

	fmt.Fprintf(&sb, "\nRooms (%d):\n", len(report.Rooms))
	for _, r := range report.Rooms {
		fmt.Fprintf(&sb, "  %3d  %-20s doors: %d\n", r.Index, r.Rect, r.Doors)
	}

	fmt.Fprintf(&sb, "\nEdges (%d):\n", len(report.Edges))
	for _, e := range report.Edges {
		fmt.Fprintf(&sb, "  %3d - %-3d door %s\n", e.A, e.B, e.Door)
	}

	sb.WriteString("\n")
	if report.Connected {
		fmt.Fprintf(&sb, "Connectivity: connected (%d/%d rooms reached)\n",
			len(report.VisitOrder), len(report.Rooms))
	} else {
		fmt.Fprintf(&sb, "Connectivity: DISCONNECTED (%d/%d rooms reached)\n",
			len(report.VisitOrder), len(report.Rooms))
		fmt.Fprintf(&sb, "Unreached: %s\n", joinInts(report.Unreached))
	}
	fmt.Fprintf(&sb, "Visit order: %s\n", joinInts(report.VisitOrder))

	if len(report.SharedDoors) > 0 {
		points := make([]string, len(report.SharedDoors))
		for i, p := range report.SharedDoors {
			points[i] = p.String()
		}
		fmt.Fprintf(&sb, "Shared doors: %s\n", strings.Join(points, " "))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
