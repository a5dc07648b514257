package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message type for WebSocket communication between client and server.
type MessageType string

const (
	MsgTypeNewGame MessageType = "new_game" // Client wants to discard the current game and start a new one
	MsgTypeSelect  MessageType = "select"   // Client selects (or deselects) an open card
	MsgTypeDeal    MessageType = "deal"     // Client asks for three more cards (or confirms a match)
	MsgTypeShuffle MessageType = "shuffle"  // Client asks to shuffle the open cards
	MsgTypeHint    MessageType = "hint"     // Client asks for a match, or server answers with one
	MsgTypeState   MessageType = "state"    // Server sends the full game state
	MsgTypeError   MessageType = "error"    // Server sends an error message
)

// ErrUnknownMessage is returned by Parse for message types it doesn't know.
var ErrUnknownMessage = errors.New("unknown message type")

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types (SelectMessage, StateMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeNewGame:
		target = &NewGameMessage{}
	case MsgTypeSelect:
		target = &SelectMessage{}
	case MsgTypeDeal:
		target = &DealMessage{}
	case MsgTypeShuffle:
		target = &ShuffleMessage{}
	case MsgTypeHint:
		target = &HintMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// NewGameMessage: empty.
type NewGameMessage struct{}

// SelectMessage is the payload for MsgTypeSelect
type SelectMessage struct {
	Index int `json:"index"` // Index into the open cards of the last state received
}

// DealMessage: empty.
type DealMessage struct{}

// ShuffleMessage: empty.
type ShuffleMessage struct{}

// HintMessage is the payload for MsgTypeHint. Requests are sent empty.
type HintMessage struct {
	Found   bool   `json:"found"`
	Indices [3]int `json:"indices"`
}

// StateMessage is the payload for MsgTypeState
type StateMessage struct {
	SessionID string `json:"session_id"`
	Game      View   `json:"game"`
}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}
