package game

import (
	"time"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

// Snapshot is an immutable copy of the full table state, built under the
// table lock and safe to read, serialize or ship elsewhere without
// synchronization. Player relations are by ID, never by pointer into the
// live state.
type Snapshot struct {
	RoomID string `json:"roomId"`
	HostID string `json:"hostId,omitempty"`
	Stage  Stage  `json:"stage"`

	Players        []*Player    `json:"players"`
	CommunityCards []poker.Card `json:"communityCards"`
	Pots           []Pot        `json:"pots"`

	CurrentTurnPlayerID string `json:"currentTurnPlayerId,omitempty"`
	LastActionPlayerID  string `json:"lastActionPlayerId,omitempty"`

	DealerSeat      int          `json:"dealerSeat"`
	MinRaise        chips.Amount `json:"minRaise"`
	LastRaiseAmount chips.Amount `json:"lastRaiseAmount"`

	ActionStartedAt  time.Time `json:"actionStartedAt,omitzero"`
	LastStreetAction string    `json:"lastStreetAction,omitempty"`

	MuckChoicePlayerID string    `json:"muckChoicePlayerId,omitempty"`
	MuckRevealing      bool      `json:"muckRevealing"`
	MuckChoiceStartAt  time.Time `json:"muckChoiceStartAt,omitzero"`

	Settings        Settings           `json:"settings"`
	ChatHistory     []ChatMessage      `json:"chatHistory"`
	PendingRequests []FinancialRequest `json:"pendingRequests"`
}

// PlayerByID looks up a player in the snapshot, or nil.
func (s *Snapshot) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MaxStreetBet is the highest street commitment among non-spectators.
func (s *Snapshot) MaxStreetBet() chips.Amount {
	var max chips.Amount
	for _, p := range s.Players {
		if !p.IsSpectator && p.BetThisStreet > max {
			max = p.BetThisStreet
		}
	}
	return max
}

// snapshotLocked builds a Snapshot. Callers must hold t.mu.
func (t *Table) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		RoomID:              t.roomID,
		HostID:              t.hostID,
		Stage:               t.stage,
		Players:             make([]*Player, 0, len(t.players)),
		CommunityCards:      append([]poker.Card(nil), t.community...),
		Pots:                make([]Pot, 0, len(t.pots)),
		CurrentTurnPlayerID: t.currentTurnID,
		LastActionPlayerID:  t.lastActionID,
		DealerSeat:          t.dealerSeat,
		MinRaise:            t.minRaise,
		LastRaiseAmount:     t.lastRaiseAmount,
		ActionStartedAt:     t.actionStartedAt,
		LastStreetAction:    t.lastStreetAction,
		MuckChoicePlayerID:  t.muckChoiceID,
		MuckRevealing:       t.muckRevealing,
		MuckChoiceStartAt:   t.muckStartedAt,
		Settings:            t.settings,
		ChatHistory:         append([]ChatMessage(nil), t.chat...),
		PendingRequests:     append([]FinancialRequest(nil), t.pending...),
	}
	for _, p := range t.players {
		snap.Players = append(snap.Players, p.clone())
	}
	for _, pot := range t.pots {
		snap.Pots = append(snap.Pots, Pot{
			Amount:            pot.Amount,
			EligiblePlayerIDs: append([]string(nil), pot.EligiblePlayerIDs...),
		})
	}
	return snap
}
