package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var errEmptyAction = errors.New("message has no action")

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// decodeInbound parses a client frame into an inbound event for connectionID.
func decodeInbound(connectionID string, data []byte) (*entity.Inbound, error) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if message.Action == "" {
		return nil, errEmptyAction
	}

	in := &entity.Inbound{
		ConnectionID: connectionID,
		Action:       message.Action,
	}

	if len(message.Payload) > 0 && string(message.Payload) != "null" {
		if err := json.Unmarshal(message.Payload, &in.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return in, nil
}
