package game

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/tablestakes/internal/chips"
)

// SubmitAction applies a betting action from the player on turn. Actions
// from anyone else, or malformed amounts, are ignored without mutating
// state. Amount is the total street-bet target for bet and raise.
func (t *Table) SubmitAction(playerID string, action ActionType, amount chips.Amount) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submitActionLocked(playerID, Decision{Action: action, Amount: amount})
}

func (t *Table) submitActionLocked(playerID string, d Decision) {
	if !t.stage.Betting() || t.currentTurnID != playerID {
		return
	}
	p := t.playerByIDLocked(playerID)
	if p == nil {
		return
	}
	if !t.legalLocked(p, d) {
		t.log.Warn("illegal action ignored",
			"player", p.Name, "action", d.Action, "amount", d.Amount)
		return
	}
	t.applyActionLocked(p, d)
}

// ValidActions lists the legal actions for the player currently on turn.
// Empty when it is not that player's turn or no hand is running.
func (t *Table) ValidActions(playerID string) []ValidAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.stage.Betting() || t.currentTurnID != playerID {
		return nil
	}
	p := t.playerByIDLocked(playerID)
	if p == nil {
		return nil
	}
	return t.validActionsLocked(p)
}

func (t *Table) validActionsLocked(p *Player) []ValidAction {
	maxBet := t.maxStreetBetLocked()
	toCall := maxBet - p.BetThisStreet
	allInTotal := p.BetThisStreet + p.Chips

	actions := []ValidAction{{Type: ActionFold}}
	if toCall == 0 {
		actions = append(actions, ValidAction{Type: ActionCheck})
	} else {
		actions = append(actions, ValidAction{
			Type: ActionCall,
			Min:  chips.Min(toCall, p.Chips),
		})
	}

	if maxBet == 0 {
		if allInTotal > 0 {
			actions = append(actions, ValidAction{
				Type: ActionBet,
				Min:  chips.Min(t.settings.BigBlind, allInTotal),
				Max:  allInTotal,
			})
		}
	} else if allInTotal > maxBet {
		actions = append(actions, ValidAction{
			Type: ActionRaise,
			Min:  chips.Min(t.minRaise, allInTotal),
			Max:  allInTotal,
		})
	}
	return actions
}

// legalLocked enforces betting legality. A bet or raise must exceed the
// current street maximum, fit inside the player's stack, and reach the
// minimum raise unless it puts the player all in.
func (t *Table) legalLocked(p *Player, d Decision) bool {
	maxBet := t.maxStreetBetLocked()
	toCall := maxBet - p.BetThisStreet
	allInTotal := p.BetThisStreet + p.Chips

	switch d.Action {
	case ActionFold:
		return true
	case ActionCheck:
		return toCall == 0
	case ActionCall:
		return true
	case ActionBet:
		if maxBet != 0 {
			return false
		}
	case ActionRaise:
		if maxBet == 0 {
			return false
		}
	default:
		return false
	}

	if d.Amount <= maxBet || d.Amount > allInTotal {
		return false
	}
	if d.Amount < t.minRaise && d.Amount != allInTotal {
		return false
	}
	return true
}

func (t *Table) applyActionLocked(p *Player, d Decision) {
	maxBet := t.maxStreetBetLocked()
	toCall := maxBet - p.BetThisStreet

	p.HasActedThisStreet = true
	p.IsThinking = false
	t.lastActionID = p.ID

	now := t.clock.Now()
	switch d.Action {
	case ActionFold:
		p.IsFolded = true
		p.LastAction = &LastAction{Type: ActionFold, At: now}
		t.lastStreetAction = fmt.Sprintf("%s folds.", p.Name)

	case ActionCheck:
		p.LastAction = &LastAction{Type: ActionCheck, At: now}
		t.lastStreetAction = fmt.Sprintf("%s checks.", p.Name)

	case ActionCall:
		add := chips.Min(toCall, p.Chips)
		p.Chips -= add
		p.BetThisRound += add
		p.BetThisStreet += add
		if p.Chips == 0 {
			p.IsAllIn = true
		}
		p.LastAction = &LastAction{Type: ActionCall, Amount: add, At: now}
		t.lastStreetAction = fmt.Sprintf("%s calls.", p.Name)

	case ActionBet, ActionRaise:
		increase := d.Amount - p.BetThisStreet
		p.Chips -= increase
		p.BetThisRound += increase
		p.BetThisStreet = d.Amount
		raiseSize := d.Amount - maxBet
		t.minRaise = d.Amount + chips.Max(raiseSize, t.settings.BigBlind)
		t.lastRaiseAmount = raiseSize
		if p.Chips == 0 {
			p.IsAllIn = true
		}
		p.LastAction = &LastAction{Type: d.Action, Amount: d.Amount, At: now}
		t.lastStreetAction = fmt.Sprintf("%s %ss.", p.Name, d.Action)

		// A full bet or raise reopens the action for everyone else.
		for _, other := range t.players {
			if other.ID != p.ID && !other.IsFolded && !other.IsAllIn {
				other.HasActedThisStreet = false
			}
		}
	}

	t.log.Debug("action applied",
		"player", p.Name, "action", d.Action, "amount", d.Amount, "stack", p.Chips)

	var remaining int
	for _, pl := range t.players {
		if !pl.IsSpectator && !pl.IsFolded {
			remaining++
		}
	}
	if remaining == 1 {
		t.updatePotsLocked()
		t.settleHandLocked()
		return
	}

	t.updatePotsLocked()
	t.advanceTurnLocked()
}

// advanceTurnLocked closes the street if every live player has acted and
// matched the highest street bet (or is all in), otherwise moves the turn
// to the next eligible seat.
func (t *Table) advanceTurnLocked() {
	maxBet := t.maxStreetBetLocked()
	closed := true
	for _, p := range t.players {
		if p.IsSpectator || p.IsFolded {
			continue
		}
		if p.IsAllIn {
			continue
		}
		if !p.HasActedThisStreet || p.BetThisStreet != maxBet {
			closed = false
			break
		}
	}

	if closed {
		t.scheduleLocked(settleDelay, func() { t.nextStageLocked() })
		t.broadcastLocked()
		return
	}

	seated := t.seatedLocked()
	cur := 0
	for i, p := range seated {
		if p.ID == t.currentTurnID {
			cur = i
			break
		}
	}
	next := (cur + 1) % len(seated)
	for seated[next].IsFolded || (seated[next].IsAllIn && seated[next].HasActedThisStreet) {
		next = (next + 1) % len(seated)
	}

	t.setTurnLocked(seated[next].ID)
	t.broadcastLocked()
}

// setTurnLocked hands the turn to a player, arms their action timer and
// kicks off their agent if one is registered.
func (t *Table) setTurnLocked(playerID string) {
	t.currentTurnID = playerID
	t.actionStartedAt = t.clock.Now()
	t.actionSeq++

	if t.settings.ActionTimer > 0 {
		seq := t.actionSeq
		t.clock.AfterFunc(t.settings.ActionTimer, func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.actionSeq != seq || t.currentTurnID != playerID {
				return
			}
			p := t.playerByIDLocked(playerID)
			if p == nil {
				return
			}
			toCall := t.maxStreetBetLocked() - p.BetThisStreet
			t.log.Info("action timeout", "player", p.Name)
			t.applyActionLocked(p, FallbackDecision(toCall))
		})
	}

	t.maybeRunAgentLocked(playerID)
}

// maybeRunAgentLocked dispatches an asynchronous decision for an
// automated player. The goroutine revalidates the action sequence before
// applying, so a decision that arrives after a timeout or hand reset is
// discarded rather than applied stale.
func (t *Table) maybeRunAgentLocked(playerID string) {
	agent, ok := t.agents[playerID]
	if !ok || !t.stage.Betting() {
		return
	}
	p := t.playerByIDLocked(playerID)
	if p == nil || p.IsFolded || p.IsAllIn {
		return
	}

	p.IsThinking = true
	snap := t.snapshotLocked()
	valid := t.validActionsLocked(p)
	seq := t.actionSeq
	timeout := t.settings.ActionTimer

	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		decision, err := agent.MakeDecision(ctx, snap, playerID, valid)

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.actionSeq != seq || t.currentTurnID != playerID {
			return
		}
		player := t.playerByIDLocked(playerID)
		if player == nil {
			return
		}

		toCall := t.maxStreetBetLocked() - player.BetThisStreet
		if err != nil {
			t.log.Warn("agent decision failed", "player", player.Name, "error", err)
			decision = FallbackDecision(toCall)
		} else {
			decision = t.clampDecisionLocked(player, decision)
		}
		if !t.legalLocked(player, decision) {
			decision = FallbackDecision(toCall)
		}
		t.applyActionLocked(player, decision)
	}()
}

// clampDecisionLocked nudges an agent's bet or raise into the legal
// range: up to the minimum raise, down to all in.
func (t *Table) clampDecisionLocked(p *Player, d Decision) Decision {
	if d.Action != ActionBet && d.Action != ActionRaise {
		return d
	}
	if d.Amount < t.minRaise {
		d.Amount = t.minRaise
	}
	if allIn := p.BetThisStreet + p.Chips; d.Amount > allIn {
		d.Amount = allIn
	}
	if t.maxStreetBetLocked() == 0 {
		d.Action = ActionBet
	} else {
		d.Action = ActionRaise
	}
	return d
}

// scheduleLocked arms a deferred transition that self-cancels if any
// other transition happens first.
func (t *Table) scheduleLocked(d time.Duration, fn func()) {
	t.actionSeq++
	seq := t.actionSeq
	t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.actionSeq != seq || t.closed {
			return
		}
		fn()
	})
}

func (t *Table) maxStreetBetLocked() chips.Amount {
	var max chips.Amount
	for _, p := range t.players {
		if !p.IsSpectator && p.BetThisStreet > max {
			max = p.BetThisStreet
		}
	}
	return max
}

// seatedLocked returns non-spectators in seat order.
func (t *Table) seatedLocked() []*Player {
	var seated []*Player
	for _, p := range t.players {
		if !p.IsSpectator {
			seated = append(seated, p)
		}
	}
	sortBySeat(seated)
	return seated
}

func (t *Table) updatePotsLocked() {
	t.pots = RefundUncallable(CalculatePots(t.players), t.players)
}
