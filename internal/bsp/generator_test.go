package bsp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

func TestGenerateInvalidBounds(t *testing.T) {
	tests := []geom.Rect{
		geom.NewRect(0, 0, 0, 10),
		geom.NewRect(0, 0, 10, 0),
		geom.NewRect(0, 0, -5, 10),
	}

	for _, bounds := range tests {
		layout, err := Generate(bounds, 2, 2, NewRandomSource(1))
		if !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("Generate(%v) error = %v, want ErrInvalidBounds", bounds, err)
		}
		if layout != nil {
			t.Errorf("Generate(%v) returned a layout alongside an error", bounds)
		}
	}
}

func TestGenerateNilRandomSource(t *testing.T) {
	_, err := Generate(geom.NewRect(0, 0, 10, 10), 2, 2, nil)
	if !errors.Is(err, ErrNilRandomSource) {
		t.Errorf("error = %v, want ErrNilRandomSource", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	bounds := geom.NewRect(0, 0, 64, 48)

	layout1, err1 := Generate(bounds, 6, 5, NewRandomSource(1234))
	layout2, err2 := Generate(bounds, 6, 5, NewRandomSource(1234))
	if err1 != nil || err2 != nil {
		t.Fatalf("Generate failed: %v / %v", err1, err2)
	}

	if !reflect.DeepEqual(layout1.Rooms(), layout2.Rooms()) {
		t.Error("rooms differ between runs with the same seed")
	}
	if !reflect.DeepEqual(layout1.Edges(), layout2.Edges()) {
		t.Error("edges differ between runs with the same seed")
	}
	if !reflect.DeepEqual(layout1.Doors(), layout2.Doors()) {
		t.Error("doors differ between runs with the same seed")
	}
	if !reflect.DeepEqual(layout1.Splits(), layout2.Splits()) {
		t.Error("splits differ between runs with the same seed")
	}
}

func TestGenerateDeterministicScripted(t *testing.T) {
	bounds := geom.NewRect(0, 0, 20, 10)
	draws := []int{1, 5, 0, 1, 3, 1, 4, 2, 0, 2, 1, 3, 4, 0, 1, 2}

	layout1, err := Generate(bounds, 5, 5, newScriptedSource(draws...))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	layout2, err := Generate(bounds, 5, 5, newScriptedSource(draws...))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !reflect.DeepEqual(layout1, layout2) {
		t.Error("layouts differ for identical draw sequences")
	}
	if layout1.RoomCount() != 8 {
		t.Errorf("RoomCount() = %d, want 8", layout1.RoomCount())
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	bounds := geom.NewRect(0, 0, 100, 100)

	a, _ := Generate(bounds, 5, 5, NewRandomSource(1))
	b, _ := Generate(bounds, 5, 5, NewRandomSource(2))

	if reflect.DeepEqual(a.Rooms(), b.Rooms()) && reflect.DeepEqual(a.Doors(), b.Doors()) {
		t.Error("different seeds produced identical layouts")
	}
}

func TestGenerateAlwaysConnected(t *testing.T) {
	tests := []struct {
		bounds              geom.Rect
		minWidth, minHeight int
	}{
		{geom.NewRect(0, 0, 20, 20), 10, 10},
		{geom.NewRect(0, 0, 80, 50), 6, 4},
		{geom.NewRect(10, 10, 40, 120), 3, 7},
		{geom.NewRect(0, 0, 30, 30), 1, 1},
	}

	for _, tt := range tests {
		for seed := int64(1); seed <= 20; seed++ {
			layout, err := Generate(tt.bounds, tt.minWidth, tt.minHeight, NewRandomSource(seed))
			if err != nil {
				t.Fatalf("%v seed %d: %v", tt.bounds, seed, err)
			}
			result := layout.CheckConnectivity()
			if !result.FullyConnected {
				t.Errorf("%v seed %d: layout not connected, unreached %v",
					tt.bounds, seed, result.Unreached(layout.RoomCount()))
			}
			if len(result.VisitOrder) != layout.RoomCount() {
				t.Errorf("%v seed %d: visited %d of %d rooms",
					tt.bounds, seed, len(result.VisitOrder), layout.RoomCount())
			}
			assertPartition(t, tt.bounds, layout.Rooms())
		}
	}
}

func TestGenerateNonPositiveMinimum(t *testing.T) {
	bounds := geom.NewRect(0, 0, 30, 30)

	layout, err := Generate(bounds, 0, -1, NewRandomSource(1))
	if err != nil {
		t.Fatalf("non-positive minimum should not be an error, got %v", err)
	}
	if layout.RoomCount() != 1 {
		t.Fatalf("RoomCount() = %d, want 1", layout.RoomCount())
	}
	if r, _ := layout.Room(0); r != bounds {
		t.Errorf("Room(0) = %v, want %v", r, bounds)
	}
	if len(layout.Edges()) != 0 || len(layout.Doors()) != 0 {
		t.Error("single room layout should have no edges or doors")
	}
	if !layout.CheckConnectivity().FullyConnected {
		t.Error("single room layout should be connected")
	}
}

func TestLayoutAccessorsReturnCopies(t *testing.T) {
	layout, err := Generate(geom.NewRect(0, 0, 40, 40), 5, 5, NewRandomSource(9))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	rooms := layout.Rooms()
	rooms[0] = geom.NewRect(-1, -1, 1, 1)
	if r, _ := layout.Room(0); r == rooms[0] {
		t.Error("mutating Rooms() result changed the layout")
	}

	doors := layout.Doors()
	if len(doors) == 0 {
		t.Fatal("expected doors")
	}
	doors[0] = geom.Point{X: -1, Y: -1}
	if d, _, _ := layout.Door(0); d == doors[0] {
		t.Error("mutating Doors() result changed the layout")
	}

	edges := layout.Edges()
	edges[0] = Edge{A: 99, B: 100}
	if _, e, _ := layout.Door(0); e == edges[0] {
		t.Error("mutating Edges() result changed the layout")
	}
}

func TestLayoutLookups(t *testing.T) {
	bounds := geom.NewRect(0, 0, 40, 30)
	layout, err := Generate(bounds, 5, 5, NewRandomSource(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if layout.Bounds() != bounds {
		t.Errorf("Bounds() = %v, want %v", layout.Bounds(), bounds)
	}
	if w, h := layout.MinSize(); w != 5 || h != 5 {
		t.Errorf("MinSize() = %d,%d, want 5,5", w, h)
	}
	if _, ok := layout.Room(-1); ok {
		t.Error("Room(-1) should not exist")
	}
	if _, _, ok := layout.Door(len(layout.Edges())); ok {
		t.Error("Door past the end should not exist")
	}

	for i, r := range layout.Rooms() {
		if got := layout.RoomAt(r.X, r.Y); got != i {
			t.Errorf("RoomAt(%d,%d) = %d, want %d", r.X, r.Y, got, i)
		}
	}
	if got := layout.RoomAt(-1, -1); got != -1 {
		t.Errorf("RoomAt outside bounds = %d, want -1", got)
	}
}
