package server

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/gameid"
)

// GameInstance pairs a game with the mutex that serializes its actions.
// Two actions for the same game are never evaluated concurrently;
// independent games run fully in parallel.
type GameInstance struct {
	ID   string
	mu   sync.Mutex
	game *game.Game
}

// Do runs fn with the instance's game under its lock.
func (gi *GameInstance) Do(fn func(g *game.Game)) {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	fn(gi.game)
}

// Dispatch serializes and forwards an action to the game.
func (gi *GameInstance) Dispatch(action string, payload game.Payload) (string, error) {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	return gi.game.Dispatch(action, payload)
}

// PlayerSpec describes a player joining a new game.
type PlayerSpec struct {
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap"`
}

// GameSummary holds lightweight game metadata for clients.
type GameSummary struct {
	ID       string `json:"id"`
	Hole     int    `json:"hole"`
	Captain  string `json:"captain"`
	Finished bool   `json:"finished"`
}

// Registry tracks live game instances by id and owns their lifecycle. It is
// the identity source for both game ids and player ids.
type Registry struct {
	logger *log.Logger
	cfg    game.Config
	sink   game.Sink

	mu    sync.RWMutex
	games map[string]*GameInstance
}

// NewRegistry constructs an empty registry. New games are created with the
// given config and persistence sink (sink may be nil).
func NewRegistry(cfg game.Config, sink game.Sink, logger *log.Logger) *Registry {
	return &Registry{
		logger: logger.WithPrefix("registry"),
		cfg:    cfg,
		sink:   sink,
		games:  make(map[string]*GameInstance),
	}
}

// CreateGame sets up a new four-player game. Player ids are freshly issued
// UUIDs; the returned game exposes them via Players.
func (r *Registry) CreateGame(specs []PlayerSpec) (*GameInstance, error) {
	if len(specs) != 4 {
		return nil, fmt.Errorf("a game needs exactly 4 players, got %d", len(specs))
	}

	players := make([]*game.Player, len(specs))
	for i, spec := range specs {
		players[i] = &game.Player{
			ID:       uuid.NewString(),
			Name:     spec.Name,
			Handicap: spec.Handicap,
		}
	}

	id := gameid.Generate()
	g, err := game.NewGame(id, players, r.cfg,
		game.WithLogger(r.logger.WithPrefix("game")),
		game.WithSink(r.sink),
	)
	if err != nil {
		return nil, err
	}

	instance := &GameInstance{ID: id, game: g}
	r.mu.Lock()
	r.games[id] = instance
	r.mu.Unlock()

	r.logger.Info("game created", "game", id, "players", len(players))
	return instance, nil
}

// GetGame retrieves a game instance by id.
func (r *Registry) GetGame(id string) (*GameInstance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.games[id]
	return instance, ok
}

// DeleteGame discards a game. Abandoning a game between holes needs no
// cleanup beyond dropping the instance.
func (r *Registry) DeleteGame(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return false
	}
	delete(r.games, id)
	r.logger.Info("game deleted", "game", id)
	return true
}

// Dispatch routes an action to a game by id, serializing per game.
func (r *Registry) Dispatch(gameID, action string, payload game.Payload) (string, error) {
	instance, ok := r.GetGame(gameID)
	if !ok {
		return "", fmt.Errorf("no such game %q", gameID)
	}
	return instance.Dispatch(action, payload)
}

// ListGames returns a snapshot of live games.
func (r *Registry) ListGames() []GameSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]GameSummary, 0, len(r.games))
	for _, instance := range r.games {
		instance.Do(func(g *game.Game) {
			summaries = append(summaries, GameSummary{
				ID:       instance.ID,
				Hole:     g.HoleNumber(),
				Captain:  g.Captain(),
				Finished: g.Finished(),
			})
		})
	}
	return summaries
}
