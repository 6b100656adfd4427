package game

import (
	"reflect"
	"testing"
)

// makeCourse builds an n-hole course whose stroke index equals the hole
// number, so rank r is hole r.
func makeCourse(n int) *Course {
	c := &Course{Name: "flat"}
	for i := 1; i <= n; i++ {
		c.Holes = append(c.Holes, Hole{Number: i, Par: 4, Yards: 400, StrokeIndex: i})
	}
	return c
}

func TestAllocateStrokesRelativeToLowest(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "a", Handicap: 8},
		{ID: "b", Handicap: 10},
		{ID: "c", Handicap: 15},
	}
	table, err := AllocateStrokes(players, makeCourse(18))
	if err != nil {
		t.Fatalf("AllocateStrokes failed: %v", err)
	}

	// The low handicap plays off scratch everywhere.
	for hole := 1; hole <= 18; hole++ {
		if got := table.Strokes("a", hole); got != 0 {
			t.Errorf("scratch player got %g strokes on hole %d", got, hole)
		}
	}

	// b is 2 over the low: one stroke on the two hardest holes.
	for hole := 1; hole <= 18; hole++ {
		want := 0.0
		if hole <= 2 {
			want = 1
		}
		if got := table.Strokes("b", hole); got != want {
			t.Errorf("hole %d: b strokes = %g, want %g", hole, got, want)
		}
	}

	// c is 7 over: strokes on ranks 1..7.
	total := 0.0
	for hole := 1; hole <= 18; hole++ {
		total += table.Strokes("c", hole)
	}
	if total != 7 {
		t.Errorf("c total strokes = %g, want 7", total)
	}
}

func TestAllocateStrokesHalfStroke(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "low", Handicap: 8},
		{ID: "mid", Handicap: 10.5},
	}
	table, err := AllocateStrokes(players, makeCourse(18))
	if err != nil {
		t.Fatalf("AllocateStrokes failed: %v", err)
	}

	// relative 2.5: full strokes on ranks 1 and 2, half on rank 3.
	cases := map[int]float64{1: 1, 2: 1, 3: 0.5, 4: 0}
	for hole, want := range cases {
		if got := table.Strokes("mid", hole); got != want {
			t.Errorf("hole %d: strokes = %g, want %g", hole, got, want)
		}
	}
}

func TestAllocateStrokesSecondLap(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "low", Handicap: 0},
		{ID: "high", Handicap: 12.5},
	}
	table, err := AllocateStrokes(players, makeCourse(9))
	if err != nil {
		t.Fatalf("AllocateStrokes failed: %v", err)
	}

	// full = 12 on a 9-hole course: every hole gets one stroke, ranks 1..3
	// a second, and the half lands on rank 4.
	for hole := 1; hole <= 9; hole++ {
		want := 1.0
		switch {
		case hole <= 3:
			want = 2
		case hole == 4:
			want = 1.5
		}
		if got := table.Strokes("high", hole); got != want {
			t.Errorf("hole %d: strokes = %g, want %g", hole, got, want)
		}
	}

	// Total credit equals the relative handicap.
	total := 0.0
	for hole := 1; hole <= 9; hole++ {
		total += table.Strokes("high", hole)
	}
	if total != 12.5 {
		t.Errorf("total strokes = %g, want 12.5", total)
	}
}

func TestAllocateStrokesIdempotent(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "a", Handicap: 10.5},
		{ID: "b", Handicap: 15},
		{ID: "c", Handicap: 8},
		{ID: "d", Handicap: 20.5},
	}
	course := DefaultCourse()

	first, err := AllocateStrokes(players, course)
	if err != nil {
		t.Fatalf("first allocation failed: %v", err)
	}
	second, err := AllocateStrokes(players, course)
	if err != nil {
		t.Fatalf("second allocation failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("allocation is not deterministic for identical inputs")
	}
}

func TestAllocateStrokesMalformedInput(t *testing.T) {
	t.Parallel()

	players := []*Player{{ID: "a", Handicap: 5}}

	if _, err := AllocateStrokes(players, &Course{Name: "empty"}); err == nil {
		t.Error("expected error for course with no holes")
	}
	if _, err := AllocateStrokes(players, nil); err == nil {
		t.Error("expected error for nil course")
	}
	if _, err := AllocateStrokes(nil, makeCourse(9)); err == nil {
		t.Error("expected error for no players")
	}
	if _, err := AllocateStrokes([]*Player{{ID: "x", Handicap: -1}}, makeCourse(9)); err == nil {
		t.Error("expected error for negative handicap")
	}
}
