package export

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// WriteYAML writes report as YAML with keys in a fixed order. Rectangles and
// points are written in flow style so each room or edge stays on one line.
func WriteYAML(w io.Writer, report *Report) error {
	root := &yaml.Node{
		Kind: yaml.MappingNode,
		HeadComment: fmt.Sprintf("Dungeon layout %dx%d, %d rooms, seed %d",
			report.Bounds.Width, report.Bounds.Height, len(report.Rooms), report.Seed),
	}

	addIntField(root, "seed", report.Seed)
	addRectField(root, "bounds", report.Bounds)
	addIntField(root, "min_width", int64(report.MinWidth))
	addIntField(root, "min_height", int64(report.MinHeight))

	rooms := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range report.Rooms {
		room := &yaml.Node{Kind: yaml.MappingNode}
		addIntField(room, "index", int64(r.Index))
		addRectField(room, "rect", r.Rect)
		addIntField(room, "doors", int64(r.Doors))
		rooms.Content = append(rooms.Content, room)
	}
	addNodeField(root, "rooms", rooms)

	edges := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range report.Edges {
		edge := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		addIntField(edge, "a", int64(e.A))
		addIntField(edge, "b", int64(e.B))
		addPointField(edge, "door", e.Door)
		edges.Content = append(edges.Content, edge)
	}
	addNodeField(root, "edges", edges)

	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "connected"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(report.Connected)},
	)
	addIntSequenceField(root, "visit_order", report.VisitOrder)
	if len(report.Unreached) > 0 {
		addIntSequenceField(root, "unreached", report.Unreached)
	}
	if len(report.SharedDoors) > 0 {
		shared := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range report.SharedDoors {
			shared.Content = append(shared.Content, pointNode(p))
		}
		addNodeField(root, "shared_doors", shared)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func addNodeField(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func addIntField(node *yaml.Node, key string, value int64) {
	addNodeField(node, key, intNode(value))
}

func addRectField(node *yaml.Node, key string, r geom.Rect) {
	addNodeField(node, key, rectNode(r))
}

func addPointField(node *yaml.Node, key string, p geom.Point) {
	addNodeField(node, key, pointNode(p))
}

func addIntSequenceField(node *yaml.Node, key string, values []int) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, intNode(int64(v)))
	}
	addNodeField(node, key, seq)
}

func intNode(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func rectNode(r geom.Rect) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	addIntField(node, "x", int64(r.X))
	addIntField(node, "y", int64(r.Y))
	addIntField(node, "width", int64(r.Width))
	addIntField(node, "height", int64(r.Height))
	return node
}

func pointNode(p geom.Point) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	addIntField(node, "x", int64(p.X))
	addIntField(node, "y", int64(p.Y))
	return node
}
