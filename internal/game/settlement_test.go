package game

import (
	"errors"
	"strings"
	"testing"
)

func fourPlayers(points ...int) []*Player {
	names := []string{"Al", "Bart", "Chip", "Duke"}
	players := make([]*Player, 4)
	for i := range players {
		players[i] = &Player{ID: names[i], Name: names[i]}
		if i < len(points) {
			players[i].Points = points[i]
		}
	}
	return players
}

func partners() TeamConfig {
	return Partners{TeamA: [2]string{"Al", "Bart"}, TeamB: [2]string{"Chip", "Duke"}}
}

func TestSettleHalved(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"Al": 4, "Bart": 5, "Chip": 4, "Duke": 6}
	s, err := Settle(partners(), scores, 1, fourPlayers())
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if !s.Halved {
		t.Fatal("expected a halved hole")
	}
	for id, delta := range s.Deltas {
		if delta != 0 {
			t.Errorf("delta[%s] = %d, want 0", id, delta)
		}
	}
	if !strings.Contains(s.Message, "halved") {
		t.Errorf("message %q does not mention the halve", s.Message)
	}
}

func TestSettlePartnersWin(t *testing.T) {
	t.Parallel()

	// Team A best ball 4 beats team B best ball 5.
	scores := map[string]float64{"Al": 4, "Bart": 5, "Chip": 5, "Duke": 6}
	s, err := Settle(partners(), scores, 1, fourPlayers())
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	want := map[string]int{"Al": 1, "Bart": 1, "Chip": -1, "Duke": -1}
	for id, delta := range want {
		if s.Deltas[id] != delta {
			t.Errorf("delta[%s] = %d, want %d", id, s.Deltas[id], delta)
		}
	}
	assertConservation(t, s)
}

func TestSettleSoloAsymmetric(t *testing.T) {
	t.Parallel()

	solo := Solo{Solo: "Al", Opponents: [3]string{"Bart", "Chip", "Duke"}}

	// Opponents' best ball 4 beats the solo player's 6 at a doubled stake:
	// the lone loser pays the full per-opponent stake three times over.
	scores := map[string]float64{"Al": 6, "Bart": 4, "Chip": 5, "Duke": 7}
	s, err := Settle(solo, scores, 2, fourPlayers())
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	if s.Deltas["Al"] != -6 {
		t.Errorf("solo delta = %d, want -6", s.Deltas["Al"])
	}
	for _, id := range []string{"Bart", "Chip", "Duke"} {
		if s.Deltas[id] != 2 {
			t.Errorf("delta[%s] = %d, want 2", id, s.Deltas[id])
		}
	}
	assertConservation(t, s)
}

func TestSettleSoloWins(t *testing.T) {
	t.Parallel()

	solo := Solo{Solo: "Al", Opponents: [3]string{"Bart", "Chip", "Duke"}}

	// A lone winner collects the full per-opponent stake from each.
	scores := map[string]float64{"Al": 3, "Bart": 4, "Chip": 5, "Duke": 7}
	s, err := Settle(solo, scores, 2, fourPlayers())
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if s.Deltas["Al"] != 6 {
		t.Errorf("solo delta = %d, want 6", s.Deltas["Al"])
	}
	for _, id := range []string{"Bart", "Chip", "Duke"} {
		if s.Deltas[id] != -2 {
			t.Errorf("delta[%s] = %d, want -2", id, s.Deltas[id])
		}
	}
	assertConservation(t, s)
}

func TestKarlMarxRemainderToLowestWinner(t *testing.T) {
	t.Parallel()

	// Two winners split three quarters: the odd one goes to the winner
	// furthest down after the even split.
	players := fourPlayers()
	players[0].Points = 5 // Al
	players[1].Points = 2 // Bart
	losers := []string{"Chip", "Duke", "Eddie"}
	players = append(players, &Player{ID: "Eddie", Name: "Eddie"})

	s := SettleSides([]string{"Al", "Bart"}, losers, 1, players)
	if s.Deltas["Bart"] != 2 {
		t.Errorf("Bart delta = %d, want 2 (per-winner 1 plus the odd quarter)", s.Deltas["Bart"])
	}
	if s.Deltas["Al"] != 1 {
		t.Errorf("Al delta = %d, want 1", s.Deltas["Al"])
	}
	if s.LimboQuarters != 0 {
		t.Errorf("limbo = %d, want 0", s.LimboQuarters)
	}
	if !strings.Contains(s.Message, "Karl Marx") || !strings.Contains(s.Message, "Bart") {
		t.Errorf("message %q should credit Bart via Karl Marx", s.Message)
	}
	assertConservation(t, s)
}

func TestKarlMarxTieLeavesRemainderInLimbo(t *testing.T) {
	t.Parallel()

	players := fourPlayers()
	players[0].Points = 2 // Al
	players[1].Points = 2 // Bart
	players = append(players, &Player{ID: "Eddie", Name: "Eddie"})

	s := SettleSides([]string{"Al", "Bart"}, []string{"Chip", "Duke", "Eddie"}, 1, players)

	// Neither tied winner receives the odd quarter.
	if s.Deltas["Al"] != 1 || s.Deltas["Bart"] != 1 {
		t.Errorf("deltas = %+v, want exactly the per-winner share", s.Deltas)
	}
	if s.LimboQuarters != 1 {
		t.Errorf("limbo = %d, want 1", s.LimboQuarters)
	}
	if len(s.LimboPlayers) != 2 {
		t.Errorf("limbo players = %v, want both tied winners", s.LimboPlayers)
	}
	if !strings.Contains(s.Message, "Al") || !strings.Contains(s.Message, "Bart") {
		t.Errorf("message %q must name both tied players", s.Message)
	}
}

func TestSettleIncompleteHole(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"Al": 4, "Bart": 5, "Chip": 4, "Duke": 6}

	if _, err := Settle(Unformed{}, scores, 1, fourPlayers()); !errors.Is(err, ErrIncompleteHole) {
		t.Errorf("unformed err = %v, want ErrIncompleteHole", err)
	}
	if _, err := Settle(PendingRequest{Captain: "Al", Requested: "Bart"}, scores, 1, fourPlayers()); !errors.Is(err, ErrIncompleteHole) {
		t.Errorf("pending err = %v, want ErrIncompleteHole", err)
	}

	delete(scores, "Duke")
	if _, err := Settle(partners(), scores, 1, fourPlayers()); !errors.Is(err, ErrIncompleteHole) {
		t.Errorf("missing score err = %v, want ErrIncompleteHole", err)
	}
}

func TestBestBallIgnoresLosingScoreOrder(t *testing.T) {
	t.Parallel()

	base := map[string]float64{"Al": 4, "Bart": 6, "Chip": 5, "Duke": 7}
	swapped := map[string]float64{"Al": 4, "Bart": 6, "Chip": 7, "Duke": 5}

	s1, err := Settle(partners(), base, 1, fourPlayers())
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Settle(partners(), swapped, 1, fourPlayers())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"Al", "Bart"} {
		if s1.Deltas[id] != s2.Deltas[id] {
			t.Errorf("swapping losing scores changed %s's delta: %d vs %d", id, s1.Deltas[id], s2.Deltas[id])
		}
	}
}

// assertConservation checks that winners' gains equal losers' losses except
// for quarters left in limbo.
func assertConservation(t *testing.T, s *Settlement) {
	t.Helper()
	sum := 0
	for _, delta := range s.Deltas {
		sum += delta
	}
	if sum != -s.LimboQuarters {
		t.Errorf("deltas sum to %d with %d in limbo, want %d", sum, s.LimboQuarters, -s.LimboQuarters)
	}
}
