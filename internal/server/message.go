package server

import (
	"encoding/json"
	"time"

	"github.com/lox/wolfgoatpig/internal/game"
)

// MessageType identifies a WebSocket message.
type MessageType string

// Client -> server message types.
const (
	MsgCreateGame MessageType = "create_game"
	MsgAction     MessageType = "action"
	MsgGetState   MessageType = "get_state"
	MsgListGames  MessageType = "list_games"
)

// Server -> client message types.
const (
	MsgGameCreated MessageType = "game_created"
	MsgResult      MessageType = "result"
	MsgState       MessageType = "state"
	MsgGames       MessageType = "games"
	MsgEvent       MessageType = "event"
	MsgError       MessageType = "error"
)

// Message is the base WebSocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// CreateGameData asks the server to set up a game for four players.
type CreateGameData struct {
	Players []PlayerSpec `json:"players"`
}

// ActionData carries a dispatch action for a game.
type ActionData struct {
	GameID  string       `json:"gameId"`
	Action  string       `json:"action"`
	Payload game.Payload `json:"payload"`
}

// GetStateData requests a state snapshot for a game.
type GetStateData struct {
	GameID string `json:"gameId"`
}

// GameCreatedData reports a freshly created game and its issued player ids.
type GameCreatedData struct {
	GameID  string        `json:"gameId"`
	Players []game.Player `json:"players"`
}

// ResultData carries the user-facing message of a successful action.
type ResultData struct {
	GameID  string `json:"gameId"`
	Message string `json:"message"`
}

// EventData carries a formatted game event pushed to subscribers.
type EventData struct {
	GameID string    `json:"gameId"`
	Type   string    `json:"type"`
	Line   string    `json:"line"`
	At     time.Time `json:"at"`
}

// ErrorData reports a failed request.
type ErrorData struct {
	Error string `json:"error"`
}
