package game

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, cfg Config, opts ...Option) *Game {
	t.Helper()
	players := []*Player{
		{ID: "al", Name: "Al"},
		{ID: "bart", Name: "Bart"},
		{ID: "chip", Name: "Chip"},
		{ID: "duke", Name: "Duke"},
	}
	g, err := NewGame("g1", players, cfg, opts...)
	require.NoError(t, err)
	return g
}

// halveHole forms 2v2 teams and records identical nets so the hole halves.
func halveHole(t *testing.T, g *Game) {
	t.Helper()
	captain := g.Captain()
	partner := g.Order()[1]
	_, err := g.RequestPartner(captain, partner)
	require.NoError(t, err)
	_, err = g.AcceptPartner(partner)
	require.NoError(t, err)
	for _, id := range g.Order() {
		_, err = g.RecordNetScore(id, 4)
		require.NoError(t, err)
	}
	_, err = g.SettleHole()
	require.NoError(t, err)
}

func TestNewGameValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGame("g1", []*Player{{ID: "a"}, {ID: "b"}}, Config{})
	if err == nil {
		t.Fatal("expected an error for a 2-player game")
	}

	_, err = NewGame("g1", []*Player{{ID: "a"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}, Config{})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected a duplicate-id error, got %v", err)
	}
}

func TestFirstHolePartnersWithStrokes(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "al", Name: "Al", Handicap: 10.5},
		{ID: "bart", Name: "Bart", Handicap: 15},
		{ID: "chip", Name: "Chip", Handicap: 8},
		{ID: "duke", Name: "Duke", Handicap: 20.5},
	}
	g, err := NewGame("g1", players, Config{Course: makeCourse(18)})
	require.NoError(t, err)
	require.Equal(t, "al", g.Captain())
	require.Equal(t, 1, g.HoleNumber())

	_, err = g.RequestPartner("al", "chip")
	require.NoError(t, err)
	_, err = g.AcceptPartner("chip")
	require.NoError(t, err)

	// Every player but Chip strokes on the stroke-index-1 hole, so the
	// nets are al 4, bart 5, chip 4, duke 6.
	for id, gross := range map[string]int{"al": 5, "bart": 6, "chip": 4, "duke": 7} {
		_, err = g.RecordGrossScore(id, gross)
		require.NoError(t, err)
	}

	msg, err := g.SettleHole()
	require.NoError(t, err)
	require.Contains(t, msg, "best ball 4 vs 5")

	for id, want := range map[string]int{"al": 1, "chip": 1, "bart": -1, "duke": -1} {
		p, perr := g.Player(id)
		require.NoError(t, perr)
		require.Equal(t, want, p.Points, "points for %s", id)
	}
}

func TestFirstHoleHalvedOnMatchingBestBalls(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "al", Name: "Al", Handicap: 10.5},
		{ID: "bart", Name: "Bart", Handicap: 15},
		{ID: "chip", Name: "Chip", Handicap: 8},
		{ID: "duke", Name: "Duke", Handicap: 20.5},
	}
	g, err := NewGame("g1", players, Config{})
	require.NoError(t, err)

	_, err = g.RequestPartner("al", "bart")
	require.NoError(t, err)
	_, err = g.AcceptPartner("bart")
	require.NoError(t, err)

	for id, net := range map[string]float64{"al": 4, "bart": 5, "chip": 4, "duke": 6} {
		_, err = g.RecordNetScore(id, net)
		require.NoError(t, err)
	}

	msg, err := g.SettleHole()
	require.NoError(t, err)
	require.Contains(t, msg, "halved")
	for _, p := range g.Players() {
		require.Zero(t, p.Points, "points for %s", p.ID)
	}
}

func TestRotationCycle(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	start := g.Order()

	for hole := 1; hole <= 4; hole++ {
		require.Equal(t, start[(hole-1)%4], g.Captain(), "hole %d captain", hole)
		halveHole(t, g)
		_, err := g.AdvanceHole()
		require.NoError(t, err)
	}

	// Four rotations restore the opening order.
	if !reflect.DeepEqual(g.Order(), start) {
		t.Errorf("order after a full cycle = %v, want %v", g.Order(), start)
	}
}

func TestAdvanceRequiresSettledHole(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	if _, err := g.AdvanceHole(); !errors.Is(err, ErrIncompleteHole) {
		t.Fatalf("err = %v, want ErrIncompleteHole", err)
	}
}

func TestDeclineDoubleConcedesHole(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	_, err := g.RequestPartner("al", "bart")
	require.NoError(t, err)
	_, err = g.AcceptPartner("bart")
	require.NoError(t, err)

	_, err = g.OfferDouble("al")
	require.NoError(t, err)

	msg, err := g.DeclineDouble()
	require.NoError(t, err)
	require.Contains(t, msg, "Double declined")

	// The offering side wins at the pre-double stake and the hole is done.
	for _, tc := range []struct {
		id   string
		want int
	}{
		{"al", 1}, {"bart", 1}, {"chip", -1}, {"duke", -1},
	} {
		p, _ := g.Player(tc.id)
		require.Equal(t, tc.want, p.Points, "points for %s", tc.id)
	}
	require.Len(t, g.History(), 1)
	require.True(t, g.History()[0].Conceded)

	if _, err := g.SettleHole(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("settle after concession err = %v, want ErrInvalidTransition", err)
	}
	_, err = g.AdvanceHole()
	require.NoError(t, err)
	require.Equal(t, 2, g.HoleNumber())
}

func TestDoubleRequiresTerminalTeams(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	if _, err := g.OfferDouble("al"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition before teams form", err)
	}
	if _, err := g.AcceptDouble(); !errors.Is(err, ErrNoDoubleToAccept) {
		t.Fatalf("err = %v, want ErrNoDoubleToAccept", err)
	}
}

func TestFloatCaptainOnlyOncePerGame(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})

	if _, err := g.InvokeFloat("bart"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("non-captain float err = %v, want ErrInvalidTransition", err)
	}

	_, err := g.InvokeFloat("al")
	require.NoError(t, err)
	require.Equal(t, 2, g.Wager().Base)

	// Work the captaincy back around to al.
	for i := 0; i < 4; i++ {
		halveHole(t, g)
		_, err = g.AdvanceHole()
		require.NoError(t, err)
	}
	require.Equal(t, "al", g.Captain())

	if _, err := g.InvokeFloat("al"); !errors.Is(err, ErrFloatAlreadyUsed) {
		t.Fatalf("second float err = %v, want ErrFloatAlreadyUsed", err)
	}
}

func TestOptionOnlyWhenFurthestDown(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})

	// All square counts as furthest down.
	_, err := g.InvokeOption("al")
	require.NoError(t, err)
	require.Equal(t, 2, g.Wager().Base)

	if _, err := g.InvokeOption("al"); err == nil {
		t.Fatal("expected the option to be once per hole")
	}

	halveHole(t, g)
	_, err = g.AdvanceHole()
	require.NoError(t, err)

	// Put the new captain ahead of the field; the option is off the table.
	bart, _ := g.Player("bart")
	bart.Points = 3
	if _, err := g.InvokeOption("bart"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition when not furthest down", err)
	}
}

func TestCarryOverKeepsStakeAfterHalve(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{CarryOver: true})

	_, err := g.RequestPartner("al", "bart")
	require.NoError(t, err)
	_, err = g.AcceptPartner("bart")
	require.NoError(t, err)
	_, err = g.OfferDouble("al")
	require.NoError(t, err)
	_, err = g.AcceptDouble()
	require.NoError(t, err)
	require.Equal(t, 2, g.Wager().Base)

	for _, id := range g.Order() {
		_, err = g.RecordNetScore(id, 4)
		require.NoError(t, err)
	}
	_, err = g.SettleHole()
	require.NoError(t, err)

	_, err = g.AdvanceHole()
	require.NoError(t, err)
	require.Equal(t, 2, g.Wager().Base, "halved stake carries into the next hole")

	// A decided hole drops the stake back to standard.
	captain := g.Captain()
	_, err = g.DeclareSolo(captain)
	require.NoError(t, err)
	_, err = g.RecordNetScore(captain, 3)
	require.NoError(t, err)
	for _, id := range g.Order()[1:] {
		_, err = g.RecordNetScore(id, 5)
		require.NoError(t, err)
	}
	_, err = g.SettleHole()
	require.NoError(t, err)
	_, err = g.AdvanceHole()
	require.NoError(t, err)
	require.Equal(t, 1, g.Wager().Base)
}

func TestNoCarryOverByDefault(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	_, err := g.RequestPartner("al", "bart")
	require.NoError(t, err)
	_, err = g.AcceptPartner("bart")
	require.NoError(t, err)
	_, err = g.OfferDouble("al")
	require.NoError(t, err)
	_, err = g.AcceptDouble()
	require.NoError(t, err)

	for _, id := range g.Order() {
		_, err = g.RecordNetScore(id, 4)
		require.NoError(t, err)
	}
	_, err = g.SettleHole()
	require.NoError(t, err)
	_, err = g.AdvanceHole()
	require.NoError(t, err)
	require.Equal(t, 1, g.Wager().Base)
}

func TestLateRoundPhases(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{EnablePhases: true, Course: makeCourse(9)})
	require.Empty(t, g.Wager().Phase)
	require.Equal(t, 1, g.Wager().Base)

	advanceTo := func(hole int) {
		for g.HoleNumber() < hole {
			halveHole(t, g)
			_, err := g.AdvanceHole()
			require.NoError(t, err)
		}
	}

	advanceTo(4)
	require.Equal(t, "vinnie's variation", g.Wager().Phase)
	require.Equal(t, 2, g.Wager().Base)

	advanceTo(8)
	require.Equal(t, "hoepfinger", g.Wager().Phase)
	require.Equal(t, 2, g.Wager().Base)
}

func TestRoundFinishes(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{Course: makeCourse(3)})
	for i := 0; i < 3; i++ {
		halveHole(t, g)
		_, err := g.AdvanceHole()
		require.NoError(t, err)
	}
	require.True(t, g.Finished())

	if _, err := g.RequestPartner(g.Order()[0], g.Order()[1]); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("action after the round err = %v, want ErrInvalidTransition", err)
	}
	if _, err := g.AdvanceHole(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("advance after the round err = %v, want ErrInvalidTransition", err)
	}
}

func TestDispatchRoutesActions(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, Config{})
	_, err := g.Dispatch(ActionRequestPartner, Payload{Player: "al", Partner: "bart"})
	require.NoError(t, err)
	_, err = g.Dispatch(ActionAcceptPartner, Payload{Player: "bart"})
	require.NoError(t, err)

	if _, err := g.Dispatch("shuffleUp", Payload{}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

type failingSink struct{ calls int }

func (s *failingSink) Save(*Snapshot) error {
	s.calls++
	return fmt.Errorf("disk on fire")
}

func TestSinkFailureDoesNotBlockPlay(t *testing.T) {
	t.Parallel()

	sink := &failingSink{}
	g := newTestGame(t, Config{}, WithSink(sink))

	halveHole(t, g)
	_, err := g.AdvanceHole()
	require.NoError(t, err)
	require.Equal(t, 2, g.HoleNumber())
	require.Equal(t, 1, sink.calls)
}

func TestSnapshotTimestampsUseClock(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	g := newTestGame(t, Config{}, WithClock(clock))

	halveHole(t, g)
	require.Equal(t, clock.Now(), g.History()[0].SettledAt)

	snap := g.Snapshot()
	require.Equal(t, clock.Now(), snap.TakenAt)
	require.Equal(t, "g1", snap.GameID)
	require.Len(t, snap.Players, 4)
}
