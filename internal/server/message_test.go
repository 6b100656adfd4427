package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wolfgoatpig/internal/game"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgAction, ActionData{
		GameID: "g1",
		Action: game.ActionRequestPartner,
		Payload: game.Payload{
			Player:  "al",
			Partner: "bart",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, MsgAction, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var data ActionData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "g1", data.GameID)
	assert.Equal(t, game.ActionRequestPartner, data.Action)
	assert.Equal(t, "bart", data.Payload.Partner)
}

func TestMessageEnvelopeDecodes(t *testing.T) {
	t.Parallel()

	// The wire shape a client actually sends.
	raw := `{
		"type": "action",
		"requestId": "req-7",
		"data": {
			"gameId": "g1",
			"action": "recordGrossScore",
			"payload": {"player": "duke", "gross": 6}
		}
	}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, MsgAction, msg.Type)
	assert.Equal(t, "req-7", msg.RequestID)

	var data ActionData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, game.ActionRecordGrossScore, data.Action)
	assert.Equal(t, 6, data.Payload.Gross)
}

func TestMessageWithoutPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgListGames, nil)
	require.NoError(t, err)

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"list_games"`)
}
