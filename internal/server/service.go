package server

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/wolfgoatpig/internal/game"
)

// GameService maps client messages onto the registry's dispatch surface and
// fans game events back out to watching connections.
type GameService struct {
	registry *Registry
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewGameService creates a service over the given registry.
func NewGameService(registry *Registry, logger *log.Logger) *GameService {
	return &GameService{
		registry:    registry,
		logger:      logger.WithPrefix("service"),
		connections: make(map[*Connection]bool),
	}
}

func (gs *GameService) register(c *Connection) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.connections[c] = true
}

func (gs *GameService) unregister(c *Connection) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.connections, c)
}

// handleMessage routes a single client message.
func (gs *GameService) handleMessage(c *Connection, msg *Message) {
	switch msg.Type {
	case MsgCreateGame:
		gs.handleCreateGame(c, msg)
	case MsgAction:
		gs.handleAction(c, msg)
	case MsgGetState:
		gs.handleGetState(c, msg)
	case MsgListGames:
		gs.reply(c, msg.RequestID, MsgGames, gs.registry.ListGames())
	default:
		c.sendError(msg.RequestID, "unknown message type: "+string(msg.Type))
	}
}

func (gs *GameService) handleCreateGame(c *Connection, msg *Message) {
	var data CreateGameData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(msg.RequestID, "malformed create_game data")
		return
	}

	instance, err := gs.registry.CreateGame(data.Players)
	if err != nil {
		c.sendError(msg.RequestID, err.Error())
		return
	}

	// Forward this game's events to every watching connection for its
	// lifetime.
	instance.Do(func(g *game.Game) {
		g.Events().Subscribe(&eventForwarder{
			service:   gs,
			gameID:    instance.ID,
			formatter: g.Formatter(),
		})
	})
	c.Watch(instance.ID)

	var players []game.Player
	instance.Do(func(g *game.Game) {
		for _, p := range g.Players() {
			players = append(players, *p)
		}
	})
	gs.reply(c, msg.RequestID, MsgGameCreated, GameCreatedData{
		GameID:  instance.ID,
		Players: players,
	})
}

func (gs *GameService) handleAction(c *Connection, msg *Message) {
	var data ActionData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(msg.RequestID, "malformed action data")
		return
	}

	c.Watch(data.GameID)
	result, err := gs.registry.Dispatch(data.GameID, data.Action, data.Payload)
	if err != nil {
		// Validation failures are user-facing text by design.
		c.sendError(msg.RequestID, err.Error())
		return
	}
	gs.reply(c, msg.RequestID, MsgResult, ResultData{GameID: data.GameID, Message: result})
}

func (gs *GameService) handleGetState(c *Connection, msg *Message) {
	var data GetStateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(msg.RequestID, "malformed get_state data")
		return
	}

	instance, ok := gs.registry.GetGame(data.GameID)
	if !ok {
		c.sendError(msg.RequestID, "no such game "+data.GameID)
		return
	}

	var snap *game.Snapshot
	instance.Do(func(g *game.Game) {
		snap = g.Snapshot()
	})
	c.Watch(data.GameID)
	gs.reply(c, msg.RequestID, MsgState, snap)
}

func (gs *GameService) reply(c *Connection, requestID string, t MessageType, data interface{}) {
	msg, err := NewMessage(t, data)
	if err != nil {
		gs.logger.Error("failed to encode reply", "type", t, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.Send(msg)
}

// broadcast sends a message to every connection watching a game.
func (gs *GameService) broadcast(gameID string, msg *Message) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	for c := range gs.connections {
		if c.Watching(gameID) {
			_ = c.Send(msg)
		}
	}
}

// eventForwarder pushes formatted game events to watching clients.
type eventForwarder struct {
	service   *GameService
	gameID    string
	formatter *game.EventFormatter
}

func (ef *eventForwarder) OnEvent(event game.GameEvent) {
	msg, err := NewMessage(MsgEvent, EventData{
		GameID: ef.gameID,
		Type:   event.EventType().String(),
		Line:   ef.formatter.Format(event),
		At:     event.Timestamp(),
	})
	if err != nil {
		return
	}
	ef.service.broadcast(ef.gameID, msg)
}
