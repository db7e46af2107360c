package game

import (
	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

// Role is a player's table position for the current hand.
type Role string

const (
	RoleDealer     Role = "D"
	RoleSmallBlind Role = "SB"
	RoleBigBlind   Role = "BB"
)

// Player is a seat occupant. BetThisRound accumulates across the whole
// hand and drives pot math; BetThisStreet resets every street and drives
// call and raise math.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Chips       chips.Amount `json:"chips"`
	TotalBuyIn  chips.Amount `json:"totalBuyIn"`
	TotalBuyOut chips.Amount `json:"totalBuyOut"`

	BetThisRound  chips.Amount `json:"betThisRound"`
	BetThisStreet chips.Amount `json:"betThisStreet"`

	IsFolded           bool `json:"isFolded"`
	IsAllIn            bool `json:"isAllIn"`
	IsReady            bool `json:"isReady"`
	IsSpectator        bool `json:"isSpectator"`
	IsConnected        bool `json:"isConnected"`
	IsAI               bool `json:"isAI"`
	IsWinner           bool `json:"isWinner"`
	IsThinking         bool `json:"isThinking"`
	IsRevealingFold    bool `json:"isRevealingFold"`
	HasActedThisStreet bool `json:"hasActedThisStreet"`

	HoleCards       []poker.Card `json:"holeCards,omitempty"`
	HandDescription string       `json:"handDescription,omitempty"`
	Role            Role         `json:"role,omitempty"`
	LastAction      *LastAction  `json:"lastAction,omitempty"`

	SeatIndex int `json:"seatIndex"`
}

// Net is the player's lifetime result: what they hold plus what they took
// off the table, less what they put in. Chips committed to the live hand
// still count as held.
func (p *Player) Net() chips.Amount {
	return p.Chips + p.BetThisRound + p.TotalBuyOut - p.TotalBuyIn
}

// CanAct reports whether the player can still take betting actions this
// hand.
func (p *Player) CanAct() bool {
	return !p.IsSpectator && !p.IsFolded && !p.IsAllIn
}

// clone returns a deep copy safe to hand to observers.
func (p *Player) clone() *Player {
	cp := *p
	if p.HoleCards != nil {
		cp.HoleCards = append([]poker.Card(nil), p.HoleCards...)
	}
	if p.LastAction != nil {
		la := *p.LastAction
		cp.LastAction = &la
	}
	return &cp
}
