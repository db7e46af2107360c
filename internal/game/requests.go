package game

import (
	"fmt"
	"time"

	"github.com/lox/tablestakes/internal/chips"
)

// RequestType distinguishes adding money to the table from taking it off.
type RequestType string

const (
	RequestBuyIn  RequestType = "buy-in"
	RequestBuyOut RequestType = "buy-out"
)

// RequestStatus tracks a financial request through host moderation.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
)

// FinancialRequest is a player's buy-in or cash-out awaiting host approval.
// Approved requests take effect at the start of the next hand; denied
// requests are dropped immediately.
type FinancialRequest struct {
	ID         string        `json:"id"`
	PlayerID   string        `json:"playerId"`
	PlayerName string        `json:"playerName"`
	Type       RequestType   `json:"type"`
	Amount     chips.Amount  `json:"amount"`
	Status     RequestStatus `json:"status"`
	At         time.Time     `json:"at"`
}

// RequestFunds files a buy-in or cash-out request for host moderation.
func (t *Table) RequestFunds(playerID string, typ RequestType, amount chips.Amount) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByIDLocked(playerID)
	if p == nil {
		return fmt.Errorf("unknown player %q", playerID)
	}
	if amount <= 0 {
		return fmt.Errorf("request amount must be positive, got %s", amount)
	}

	req := FinancialRequest{
		ID:         t.newIDLocked(),
		PlayerID:   playerID,
		PlayerName: p.Name,
		Type:       typ,
		Amount:     amount,
		Status:     RequestPending,
		At:         t.clock.Now(),
	}
	t.pending = append(t.pending, req)

	label := "Buy-In"
	if typ == RequestBuyOut {
		label = "Cash-out"
	}
	t.logSystemLocked(fmt.Sprintf("%s requested a %s of %s.", p.Name, label, amount))
	t.log.Info("financial request filed",
		"player", p.Name, "type", typ, "amount", amount, "request", req.ID)
	t.broadcastLocked()
	return nil
}

// ResolveRequest approves or denies a pending request. Host only.
// Approval defers the effect to the next hand start; denial drops the
// request immediately.
func (t *Table) ResolveRequest(resolverID, requestID string, approved bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if resolverID != t.hostID {
		return fmt.Errorf("only the host can resolve requests")
	}

	idx := -1
	for i, req := range t.pending {
		if req.ID == requestID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("unknown request %q", requestID)
	}

	if approved {
		t.pending[idx].Status = RequestApproved
		t.logSystemLocked(fmt.Sprintf("Host approved request for %s. Applying next round.",
			t.pending[idx].PlayerName))
	} else {
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
	}
	t.broadcastLocked()
	return nil
}

// applyApprovedRequestsLocked moves approved buy-ins onto stacks and
// approved cash-outs off them. A cash-out never exceeds the player's live
// stack even when more was approved. Unapproved requests stay queued.
func (t *Table) applyApprovedRequestsLocked() {
	remaining := t.pending[:0]
	for _, req := range t.pending {
		if req.Status != RequestApproved {
			remaining = append(remaining, req)
			continue
		}
		p := t.playerByIDLocked(req.PlayerID)
		if p == nil {
			continue
		}
		switch req.Type {
		case RequestBuyIn:
			p.Chips += req.Amount
			p.TotalBuyIn += req.Amount
			t.logSystemLocked(fmt.Sprintf("%s Buy-In of %s applied.", p.Name, req.Amount))
		case RequestBuyOut:
			out := chips.Min(p.Chips, req.Amount)
			p.TotalBuyOut += out
			p.Chips -= out
			t.logSystemLocked(fmt.Sprintf("%s Cash-out of %s applied.", p.Name, out))
		}
	}
	t.pending = remaining
}
