package game

import (
	"fmt"
	"math"
)

// StrokeAllocation maps player id -> hole number -> stroke credit for that
// hole (0, 0.5, 1, 2, ...). It is derived data: recompute it whenever the
// player group or the course changes.
type StrokeAllocation map[string]map[int]float64

// Strokes returns the stroke credit for a player on a hole, 0 if none.
func (sa StrokeAllocation) Strokes(playerID string, hole int) float64 {
	return sa[playerID][hole]
}

// AllocateStrokes computes per-hole handicap strokes for the group. Strokes
// are allocated off the low handicap: only the difference between a player's
// handicap and the group's lowest generates strokes, so at least one player
// always plays off scratch.
//
// For a relative handicap r with f = floor(r): one stroke on every hole
// whose stroke index rank is <= f; if f exceeds the hole count, a second
// stroke on the f-N hardest holes in rank order; if the fraction r-f is at
// least 0.5, a half stroke on the next-hardest hole that has not already
// received an extra stroke.
func AllocateStrokes(players []*Player, course *Course) (StrokeAllocation, error) {
	if course == nil || course.NumHoles() <= 0 {
		return nil, fmt.Errorf("stroke allocation requires a course with at least one hole")
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("stroke allocation requires at least one player")
	}
	for _, p := range players {
		if p.Handicap < 0 {
			return nil, fmt.Errorf("player %s: negative handicap %.1f", p.ID, p.Handicap)
		}
	}

	low := players[0].Handicap
	for _, p := range players[1:] {
		if p.Handicap < low {
			low = p.Handicap
		}
	}

	n := course.NumHoles()
	table := make(StrokeAllocation, len(players))
	for _, p := range players {
		relative := p.Handicap - low
		full := int(math.Floor(relative))
		frac := relative - float64(full)

		holes := make(map[int]float64, n)
		for _, h := range course.Holes {
			credit := 0.0
			if h.StrokeIndex <= full {
				credit = 1
			}
			// Handicap differences beyond a full lap of the course earn a
			// second stroke on the hardest holes.
			if full > n && h.StrokeIndex <= full-n {
				credit = 2
			}
			if credit > 0 {
				holes[h.Number] = credit
			}
		}

		if frac >= 0.5 {
			// The half stroke lands on the hardest hole that has not yet
			// been topped up this lap.
			rank := full%n + 1
			if h := course.holeByRank(rank); h != nil {
				holes[h.Number] += 0.5
			}
		}

		table[p.ID] = holes
	}
	return table, nil
}
