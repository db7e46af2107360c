package server

import (
	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/internal/game"
)

// Client to server message types.
const (
	MessageTypeJoin           = "join"
	MessageTypeReady          = "ready"
	MessageTypeStart          = "start"
	MessageTypeSettings       = "settings"
	MessageTypeAction         = "action"
	MessageTypeMuck           = "muck"
	MessageTypeRevealFold     = "reveal_fold"
	MessageTypeChat           = "chat"
	MessageTypeRequestFunds   = "request_funds"
	MessageTypeResolveRequest = "resolve_request"
	MessageTypeFillAIs        = "fill_ais"
	MessageTypeReset          = "reset"
)

// Server to client message types.
const (
	MessageTypeState = "state"
	MessageTypeError = "error"
)

// ClientMessage is the envelope for everything a client sends. Fields are
// a union across message types; irrelevant ones are ignored.
type ClientMessage struct {
	Type string `json:"type"`

	PlayerID    string `json:"playerId,omitempty"`
	Name        string `json:"name,omitempty"`
	IsSpectator bool   `json:"isSpectator,omitempty"`

	Action game.ActionType `json:"action,omitempty"`
	Amount chips.Amount    `json:"amount,omitempty"`

	Show bool   `json:"show,omitempty"`
	Text string `json:"text,omitempty"`

	RequestType game.RequestType `json:"requestType,omitempty"`
	RequestID   string           `json:"requestId,omitempty"`
	Approved    bool             `json:"approved,omitempty"`

	Settings *game.SettingsPatch `json:"settings,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type  string         `json:"type"`
	State *game.Snapshot `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

func stateMessage(snap *game.Snapshot) *ServerMessage {
	return &ServerMessage{Type: MessageTypeState, State: snap}
}

func errorMessage(text string) *ServerMessage {
	return &ServerMessage{Type: MessageTypeError, Error: text}
}
