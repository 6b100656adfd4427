package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Config carries the per-game rule knobs.
type Config struct {
	// BaseWager is the standard stake in quarters a hole opens at.
	BaseWager int

	// CarryOver keeps the escalated stake alive into the next hole after a
	// halved hole instead of resetting to the standard stake.
	CarryOver bool

	// EnablePhases turns on the late-round rule variants: Vinnie's
	// Variation on holes 13-16 and the Hoepfinger finish from 17 in, both
	// opening at double the standard stake.
	EnablePhases bool

	// Course defaults to the built-in 18-hole layout.
	Course *Course
}

func (c Config) withDefaults() Config {
	if c.BaseWager < 1 {
		c.BaseWager = 1
	}
	if c.Course == nil {
		c.Course = DefaultCourse()
	}
	return c
}

// Game is a single Wolf Goat Pig round: four players, a rotating captaincy,
// and per-hole team/wager/score state. All methods are synchronous state
// transitions; callers serialize access per game (the server registry holds
// one mutex per game instance).
type Game struct {
	id      string
	cfg     Config
	players []*Player // current hitting order, captain first
	strokes StrokeAllocation

	holeNumber int
	formation  *Formation
	wager      *Wager
	gross      map[string]int
	net        map[string]float64
	settled    *Settlement
	lastHalved bool
	finished   bool

	history []HoleRecord

	bus       EventBus
	clock     quartz.Clock
	logger    *log.Logger
	sink      Sink
	formatter *EventFormatter
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the game's logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithClock injects the clock used for history and snapshot timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithSink sets the persistence sink snapshots are handed to.
func WithSink(sink Sink) Option {
	return func(g *Game) { g.sink = sink }
}

// WithEventBus sets the event bus; the default is a fresh SimpleEventBus.
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// NewGame creates a round for exactly four players, listed in initial
// hitting order (the first player captains hole 1), and tees up the first
// hole.
func NewGame(id string, players []*Player, cfg Config, opts ...Option) (*Game, error) {
	if len(players) != 4 {
		return nil, fmt.Errorf("wolf goat pig takes exactly 4 players, got %d", len(players))
	}
	seen := make(map[string]bool, 4)
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("player %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
	}

	cfg = cfg.withDefaults()
	if err := cfg.Course.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		id:      id,
		cfg:     cfg,
		players: players,
		bus:     NewEventBus(),
		clock:   quartz.NewReal(),
		logger:  log.Default().WithPrefix("game"),
	}
	for _, opt := range opts {
		opt(g)
	}

	names := make(map[string]string, 4)
	for _, p := range players {
		names[p.ID] = p.Name
	}
	g.formatter = NewEventFormatter(names)

	strokes, err := AllocateStrokes(players, cfg.Course)
	if err != nil {
		return nil, err
	}
	g.strokes = strokes

	g.holeNumber = 1
	g.beginHole()
	return g, nil
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// HoleNumber returns the current hole number.
func (g *Game) HoleNumber() int { return g.holeNumber }

// Captain returns the current captain's id.
func (g *Game) Captain() string { return g.formation.Captain() }

// Order returns the current hitting order.
func (g *Game) Order() []string {
	order := make([]string, len(g.players))
	for i, p := range g.players {
		order[i] = p.ID
	}
	return order
}

// Players returns the players in current hitting order.
func (g *Game) Players() []*Player { return g.players }

// Teams returns the current team configuration.
func (g *Game) Teams() TeamConfig { return g.formation.Config() }

// Wager returns a copy of the current wager state.
func (g *Game) Wager() Wager { return *g.wager }

// Strokes returns the stroke allocation table.
func (g *Game) Strokes() StrokeAllocation { return g.strokes }

// History returns the completed hole records.
func (g *Game) History() []HoleRecord { return g.history }

// Finished reports whether every hole on the course has been settled.
func (g *Game) Finished() bool { return g.finished }

// Events returns the game's event bus for subscribing.
func (g *Game) Events() EventBus { return g.bus }

// Formatter renders this game's events with player display names.
func (g *Game) Formatter() *EventFormatter { return g.formatter }

// Player looks a player up by id.
func (g *Game) Player(id string) (*Player, error) {
	for _, p := range g.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
}

// beginHole resets the transient per-hole state: fresh formation and wager,
// cleared scores and float flags.
func (g *Game) beginHole() {
	carry := g.cfg.CarryOver && g.lastHalved && g.wager != nil
	if g.wager == nil {
		g.wager = NewWager(g.standardStake())
	}
	g.wager.ResetForHole(g.standardStake(), carry)
	g.wager.Phase = g.phase()

	g.formation = NewFormation(g.Order())
	g.gross = make(map[string]int, 4)
	g.net = make(map[string]float64, 4)
	g.settled = nil
	for _, p := range g.players {
		p.FloatedHole = false
	}

	g.logger.Debug("hole begins",
		"game", g.id, "hole", g.holeNumber,
		"captain", g.formation.Captain(), "base", g.wager.Base, "phase", g.wager.Phase)

	g.publish(HoleStartEvent{
		HoleNumber: g.holeNumber,
		Captain:    g.formation.Captain(),
		Order:      g.Order(),
		BaseWager:  g.wager.Base,
		Phase:      g.wager.Phase,
		timestamp:  g.clock.Now(),
	})
}

// standardStake is the stake a hole opens at absent a carry-over: the
// configured base, doubled during the late-round phases.
func (g *Game) standardStake() int {
	if g.phase() != "" {
		return g.cfg.BaseWager * 2
	}
	return g.cfg.BaseWager
}

func (g *Game) phase() string {
	if !g.cfg.EnablePhases {
		return ""
	}
	n := g.cfg.Course.NumHoles()
	switch {
	case g.holeNumber > n-2:
		return "hoepfinger"
	case g.holeNumber > n-6:
		return "vinnie's variation"
	}
	return ""
}

// AdvanceHole rotates the hitting order left by one, promotes the new front
// player to captain, and tees up the next hole. The current hole must be
// settled first.
func (g *Game) AdvanceHole() (string, error) {
	if g.finished {
		return "", fmt.Errorf("%w: the round is over", ErrInvalidTransition)
	}
	if g.settled == nil {
		return "", fmt.Errorf("%w: settle hole %d before advancing", ErrIncompleteHole, g.holeNumber)
	}

	g.rotateOrder()
	if g.holeNumber >= g.cfg.Course.NumHoles() {
		g.finished = true
		g.logger.Info("round complete", "game", g.id, "holes", g.holeNumber)
		g.persist()
		return "Round complete", nil
	}

	g.holeNumber++
	g.beginHole()
	return fmt.Sprintf("On to hole %d, %s is captain", g.holeNumber, g.formatter.name(g.Captain())), nil
}

// rotateOrder moves the front player to the back; four rotations restore
// the original order.
func (g *Game) rotateOrder() {
	g.players = append(g.players[1:], g.players[0])
}

func (g *Game) publish(event GameEvent) {
	g.bus.Publish(event)
}

// persist hands a snapshot to the sink. Persistence failures are logged and
// swallowed: the in-memory game stays authoritative.
func (g *Game) persist() {
	if g.sink == nil {
		return
	}
	if err := g.sink.Save(g.Snapshot()); err != nil {
		g.logger.Error("snapshot save failed", "game", g.id, "hole", g.holeNumber, "error", err)
	}
}

// Snapshot captures the full serializable game state.
func (g *Game) Snapshot() *Snapshot {
	players := make([]Player, len(g.players))
	for i, p := range g.players {
		players[i] = *p
	}
	history := make([]HoleRecord, len(g.history))
	copy(history, g.history)

	return &Snapshot{
		GameID:   g.id,
		Hole:     g.holeNumber,
		Finished: g.finished,
		Players:  players,
		Order:    g.Order(),
		Teams:    g.formation.Config().String(),
		Wager:    *g.wager,
		History:  history,
		TakenAt:  g.clock.Now(),
	}
}
