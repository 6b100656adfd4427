package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/gameid"
	"github.com/lox/wolfgoatpig/internal/store"
)

// SimulateCmd plays a full round with a simple random decision policy,
// printing the hole-by-hole action and a final scorecard.
type SimulateCmd struct {
	Seed         *int64    `kong:"help='Deterministic RNG seed (optional)'"`
	Players      []string  `kong:"default='Al;Bart;Chip;Duke',sep=';',help='Four player names'"`
	Handicaps    []float64 `kong:"default='10.5;15;8;20.5',sep=';',help='Handicap per player'"`
	BaseWager    int       `kong:"default='1',help='Standard stake in quarters'"`
	CarryOver    bool      `kong:"help='Carry the stake over after a halved hole'"`
	EnablePhases bool      `kong:"help='Enable the late-round phase variants'"`
	SnapshotDir  string    `kong:"help='Write game snapshots to this directory'"`
	Debug        bool      `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("simulating round", "seed", seed)

	if len(c.Players) != 4 || len(c.Handicaps) != 4 {
		return fmt.Errorf("need exactly 4 players and 4 handicaps")
	}

	players := make([]*game.Player, 4)
	for i, name := range c.Players {
		players[i] = &game.Player{
			ID:       fmt.Sprintf("p%d", i+1),
			Name:     name,
			Handicap: c.Handicaps[i],
		}
	}

	opts := []game.Option{game.WithLogger(logger.WithPrefix("game"))}
	if c.SnapshotDir != "" {
		sink, err := store.NewFileSink(c.SnapshotDir)
		if err != nil {
			return err
		}
		opts = append(opts, game.WithSink(sink))
	}

	g, err := game.NewGame(gameid.Generate(), players, game.Config{
		BaseWager:    c.BaseWager,
		CarryOver:    c.CarryOver,
		EnablePhases: c.EnablePhases,
	}, opts...)
	if err != nil {
		return err
	}

	for !g.Finished() {
		if err := c.playHole(g, rng); err != nil {
			return err
		}
	}

	fmt.Println(renderStandings(g))
	return nil
}

// playHole drives one hole with the random policy: the captain occasionally
// goes solo or floats, otherwise asks a random partner who usually says
// yes; scores scatter around par.
func (c *SimulateCmd) playHole(g *game.Game, rng *rand.Rand) error {
	hole := g.HoleNumber()
	captain := g.Captain()
	order := g.Order()

	say := func(msg string, err error) error {
		if err != nil {
			return err
		}
		fmt.Println("  " + msg)
		return nil
	}

	fmt.Printf("-- Hole %d (stake %d) --\n", hole, g.Wager().Base)

	if captainPlayer, err := g.Player(captain); err == nil &&
		!captainPlayer.FloatUsed && rng.Intn(6) == 0 {
		if err := say(g.InvokeFloat(captain)); err != nil {
			return err
		}
	}

	if rng.Intn(4) == 0 {
		if err := say(g.DeclareSolo(captain)); err != nil {
			return err
		}
	} else {
		partner := order[1+rng.Intn(3)]
		if err := say(g.RequestPartner(captain, partner)); err != nil {
			return err
		}
		if rng.Intn(10) < 7 {
			if err := say(g.AcceptPartner(partner)); err != nil {
				return err
			}
		} else {
			if err := say(g.DeclinePartner(partner)); err != nil {
				return err
			}
		}
	}

	// An occasional double once teams are set.
	if rng.Intn(3) == 0 {
		offerer := order[rng.Intn(4)]
		if err := say(g.OfferDouble(offerer)); err != nil {
			return err
		}
		if rng.Intn(10) < 8 {
			if err := say(g.AcceptDouble()); err != nil {
				return err
			}
		} else {
			if err := say(g.DeclineDouble()); err != nil {
				return err
			}
			_, err := g.AdvanceHole()
			return err
		}
	}

	par := 4
	if h := courseHole(g, hole); h != nil {
		par = h.Par
	}
	for _, id := range order {
		gross := par + rng.Intn(4) - 1 // par-1 .. par+2
		if err := say(g.RecordGrossScore(id, gross)); err != nil {
			return err
		}
	}

	if err := say(g.SettleHole()); err != nil {
		return err
	}
	_, err := g.AdvanceHole()
	return err
}

func courseHole(g *game.Game, n int) *game.Hole {
	// The simulator always runs the default course.
	return game.DefaultCourse().HoleByNumber(n)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderStandings renders the final ledger, winners first.
func renderStandings(g *game.Game) string {
	players := append([]*game.Player{}, g.Players()...)
	sort.Slice(players, func(i, j int) bool { return players[i].Points > players[j].Points })

	var b strings.Builder
	b.WriteString(titleStyle.Render("Final standings") + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %8s %10s", "Player", "Quarters", "Handicap")) + "\n")
	for _, p := range players {
		line := fmt.Sprintf("%-12s %+8d %10.1f", p.Name, p.Points, p.Handicap)
		if p.Points >= 0 {
			b.WriteString(upStyle.Render(line) + "\n")
		} else {
			b.WriteString(downStyle.Render(line) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("%d holes settled\n", len(g.History())))
	return b.String()
}
