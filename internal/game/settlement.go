package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Settlement is the outcome of a settled hole: one point delta per player
// and a line of user-facing text. Quarters left in limbo by a Karl Marx tie
// are reported, never silently distributed.
type Settlement struct {
	Deltas  map[string]int `json:"deltas"`
	Message string         `json:"message"`
	Halved  bool           `json:"halved"`

	Winners []string `json:"winners,omitempty"`
	Losers  []string `json:"losers,omitempty"`

	// LimboQuarters is the undistributed remainder when multiple winners
	// tie for the lowest point total, with LimboPlayers naming them.
	LimboQuarters int      `json:"limbo_quarters,omitempty"`
	LimboPlayers  []string `json:"limbo_players,omitempty"`
}

// Settle computes point deltas for a completed hole. It is a pure function:
// the team configuration must be terminal and every player on both sides
// must have a net score recorded, otherwise it fails with ErrIncompleteHole
// before computing anything.
//
// Each side's representative score is the best ball (minimum net score)
// among its members. A tie halves the hole. Otherwise the total at stake is
// the base wager times the larger side's size, split evenly among winners
// with any indivisible remainder going to the winner with the lowest point
// total after the even split (the Karl Marx rule). If several winners tie
// for lowest, the remainder stays in limbo.
func Settle(cfg TeamConfig, scores map[string]float64, base int, players []*Player) (*Settlement, error) {
	sideA, sideB, ok := Sides(cfg)
	if !ok {
		return nil, fmt.Errorf("%w: teams are still %s", ErrIncompleteHole, cfg)
	}
	for _, id := range append(append([]string{}, sideA...), sideB...) {
		if _, ok := scores[id]; !ok {
			return nil, fmt.Errorf("%w: no score recorded for %s", ErrIncompleteHole, id)
		}
	}

	bestA := bestBall(sideA, scores)
	bestB := bestBall(sideB, scores)

	if bestA == bestB {
		s := &Settlement{Deltas: zeroDeltas(sideA, sideB), Halved: true}
		s.Message = fmt.Sprintf("Hole halved at %s, no quarters move", formatScore(bestA))
		return s, nil
	}

	winners, losers := sideA, sideB
	winBest, loseBest := bestA, bestB
	if bestB < bestA {
		winners, losers = sideB, sideA
		winBest, loseBest = bestB, bestA
	}

	s := SettleSides(winners, losers, base, players)
	s.Message += fmt.Sprintf(" (best ball %s vs %s)", formatScore(winBest), formatScore(loseBest))
	return s, nil
}

// SettleSides distributes quarters between an already-decided winning and
// losing side. It is the common path for score-based settlement and for
// holes conceded by declining a double, and it tolerates uneven side sizes.
func SettleSides(winners, losers []string, base int, players []*Player) *Settlement {
	points := make(map[string]int, len(players))
	names := make(map[string]string, len(players))
	for _, p := range players {
		points[p.ID] = p.Points
		names[p.ID] = p.Name
	}

	// The larger side's count sets the total so a lone winner collects the
	// full per-opponent stake and a lone loser pays it.
	total := base * max(len(winners), len(losers))
	perWinner := total / len(winners)
	remainder := total % len(winners)
	perLoser := total / len(losers)

	s := &Settlement{
		Deltas:  zeroDeltas(winners, losers),
		Winners: append([]string{}, winners...),
		Losers:  append([]string{}, losers...),
	}
	for _, id := range winners {
		s.Deltas[id] += perWinner
	}
	for _, id := range losers {
		s.Deltas[id] -= perLoser
	}

	s.Message = fmt.Sprintf("%s %s %d quarter%s each",
		joinNames(winners, names), winVerb(winners), perWinner, plural(perWinner))

	if remainder > 0 {
		// Karl Marx: the odd quarters go to the winner who is furthest
		// down, judged on totals after the even split.
		low := points[winners[0]] + perWinner
		lowest := []string{winners[0]}
		for _, id := range winners[1:] {
			after := points[id] + perWinner
			switch {
			case after < low:
				low = after
				lowest = []string{id}
			case after == low:
				lowest = append(lowest, id)
			}
		}

		if len(lowest) == 1 {
			s.Deltas[lowest[0]] += remainder
			s.Message += fmt.Sprintf("; Karl Marx gives the odd %d quarter%s to %s",
				remainder, plural(remainder), names[lowest[0]])
		} else {
			sort.Strings(lowest)
			s.LimboQuarters = remainder
			s.LimboPlayers = lowest
			s.Message += fmt.Sprintf("; %d quarter%s in limbo between %s",
				remainder, plural(remainder), joinNames(lowest, names))
		}
	}

	return s
}

func bestBall(side []string, scores map[string]float64) float64 {
	best := scores[side[0]]
	for _, id := range side[1:] {
		if scores[id] < best {
			best = scores[id]
		}
	}
	return best
}

func zeroDeltas(sides ...[]string) map[string]int {
	deltas := make(map[string]int, 4)
	for _, side := range sides {
		for _, id := range side {
			deltas[id] = 0
		}
	}
	return deltas
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinNames(ids []string, names map[string]string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := names[id]; ok && n != "" {
			out[i] = n
		} else {
			out[i] = id
		}
	}
	switch len(out) {
	case 1:
		return out[0]
	case 2:
		return out[0] + " and " + out[1]
	default:
		return strings.Join(out[:len(out)-1], ", ") + " and " + out[len(out)-1]
	}
}

func winVerb(winners []string) string {
	if len(winners) == 1 {
		return "wins"
	}
	return "win"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
