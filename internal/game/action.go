package game

import (
	"time"

	"github.com/lox/tablestakes/internal/chips"
)

// ActionType is a betting action a player can take on their turn.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// LastAction records the most recent action a player took this street.
type LastAction struct {
	Type   ActionType   `json:"type"`
	Amount chips.Amount `json:"amount,omitempty"`
	At     time.Time    `json:"at"`
}

// ValidAction describes one legal action for the player on turn. Bet and
// Raise carry the permitted total street-bet range.
type ValidAction struct {
	Type ActionType   `json:"type"`
	Min  chips.Amount `json:"min,omitempty"` // lowest legal total for bet/raise, or call amount
	Max  chips.Amount `json:"max,omitempty"` // chips+betThisStreet for bet/raise
}

// Decision is an agent's chosen action. Amount is the total street-bet
// target for bet and raise, ignored otherwise.
type Decision struct {
	Action ActionType
	Amount chips.Amount
}
