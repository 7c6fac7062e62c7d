package bsp

import "testing"

// scriptedSource replays a fixed sequence of draws. Each draw is reduced
// modulo n; once the script runs out every draw is 0.
type scriptedSource struct {
	draws []int
	pos   int
	calls []int // n of each Intn call
}

func newScriptedSource(draws ...int) *scriptedSource {
	return &scriptedSource{draws: draws}
}

func (s *scriptedSource) Intn(n int) int {
	s.calls = append(s.calls, n)
	if s.pos >= len(s.draws) {
		return 0
	}
	v := s.draws[s.pos] % n
	s.pos++
	return v
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		draw   int
		want   int
		drawn  bool
	}{
		{"lowest", 5, 10, 0, 5, true},
		{"highest", 5, 10, 5, 10, true},
		{"middle", 5, 10, 2, 7, true},
		{"single value skips draw", 7, 7, 3, 7, false},
		{"inverted range skips draw", 9, 3, 3, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newScriptedSource(tt.draw)
			got := intRange(src, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("intRange(%d, %d) = %d, want %d", tt.lo, tt.hi, got, tt.want)
			}
			if drawn := len(src.calls) > 0; drawn != tt.drawn {
				t.Errorf("drew = %v, want %v", drawn, tt.drawn)
			}
		})
	}
}

func TestCoinFlip(t *testing.T) {
	if !coinFlip(newScriptedSource(0)) {
		t.Error("draw 0 should be heads")
	}
	if coinFlip(newScriptedSource(1)) {
		t.Error("draw 1 should be tails")
	}
}

func TestNewRandomSourceDeterministic(t *testing.T) {
	a := NewRandomSource(42)
	b := NewRandomSource(42)

	for i := 0; i < 100; i++ {
		x, y := a.Intn(1000), b.Intn(1000)
		if x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}
