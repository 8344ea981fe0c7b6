package server

import (
	"github.com/lox/fairjack/internal/blackjack"
)

// MessageType identifies a server message
type MessageType string

const (
	TypeState MessageType = "state"
	TypeError MessageType = "error"
)

// CommandState asks for the current state without changing it
const CommandState blackjack.CommandKind = "state"

// Request is a client message. It carries an engine command, or
// CommandState.
type Request = blackjack.Command

// StateMessage reports the table after a command. OK is false when the
// engine rejected the command; State is then unchanged.
type StateMessage struct {
	Type  MessageType        `json:"type"`
	OK    bool               `json:"ok"`
	State blackjack.Snapshot `json:"state"`
}

// ErrorMessage reports a message the server could not act on
type ErrorMessage struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
}

func newStateMessage(ok bool, snap blackjack.Snapshot) *StateMessage {
	return &StateMessage{Type: TypeState, OK: ok, State: snap.Public()}
}

func newErrorMessage(msg string) *ErrorMessage {
	return &ErrorMessage{Type: TypeError, Error: msg}
}
