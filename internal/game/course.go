package game

import "fmt"

// Hole describes a single hole on the course. StrokeIndex is the difficulty
// rank used for handicap stroke allocation: 1 is the hardest hole.
type Hole struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	Yards       int `json:"yards"`
	StrokeIndex int `json:"stroke_index"`
}

// Course is the course provider data consumed by stroke allocation: one
// entry per hole in playing order.
type Course struct {
	Name  string `json:"name"`
	Holes []Hole `json:"holes"`
}

// NumHoles returns the number of holes on the course.
func (c *Course) NumHoles() int { return len(c.Holes) }

// HoleByNumber returns the hole with the given number, or nil.
func (c *Course) HoleByNumber(n int) *Hole {
	for i := range c.Holes {
		if c.Holes[i].Number == n {
			return &c.Holes[i]
		}
	}
	return nil
}

// holeByRank returns the hole with the given stroke index rank, or nil.
func (c *Course) holeByRank(rank int) *Hole {
	for i := range c.Holes {
		if c.Holes[i].StrokeIndex == rank {
			return &c.Holes[i]
		}
	}
	return nil
}

// Validate checks that the course is playable: at least one hole, hole
// numbers 1..N in order, and stroke indexes forming a permutation of 1..N.
func (c *Course) Validate() error {
	n := len(c.Holes)
	if n == 0 {
		return fmt.Errorf("course %q has no holes", c.Name)
	}

	seen := make(map[int]bool, n)
	for i, h := range c.Holes {
		if h.Number != i+1 {
			return fmt.Errorf("hole %d: expected number %d, got %d", i+1, i+1, h.Number)
		}
		if h.Par < 3 || h.Par > 6 {
			return fmt.Errorf("hole %d: par %d out of range", h.Number, h.Par)
		}
		if h.StrokeIndex < 1 || h.StrokeIndex > n {
			return fmt.Errorf("hole %d: stroke index %d out of range 1..%d", h.Number, h.StrokeIndex, n)
		}
		if seen[h.StrokeIndex] {
			return fmt.Errorf("hole %d: duplicate stroke index %d", h.Number, h.StrokeIndex)
		}
		seen[h.StrokeIndex] = true
	}
	return nil
}

// DefaultCourse returns a built-in 18-hole par 72 layout used when no course
// file is configured.
func DefaultCourse() *Course {
	pars := []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 3, 4, 5, 4, 4, 3, 4, 5}
	yards := []int{420, 385, 165, 540, 410, 380, 185, 400, 520, 430, 155, 395, 555, 415, 370, 175, 405, 535}
	index := []int{5, 11, 17, 1, 7, 13, 15, 3, 9, 2, 18, 10, 4, 6, 12, 16, 8, 14}

	c := &Course{Name: "default"}
	for i := 0; i < 18; i++ {
		c.Holes = append(c.Holes, Hole{
			Number:      i + 1,
			Par:         pars[i],
			Yards:       yards[i],
			StrokeIndex: index[i],
		})
	}
	return c
}
