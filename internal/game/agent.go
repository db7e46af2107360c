package game

import (
	"context"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

// Agent decides an action for an automated player. Implementations may
// block on external calls; the table runs them off the lock, enforces its
// own action timer, and discards any decision that arrives after the
// state has moved on. Agents receive an immutable snapshot and must not
// retain it across calls.
type Agent interface {
	MakeDecision(ctx context.Context, state *Snapshot, playerID string, valid []ValidAction) (Decision, error)
}

// FallbackDecision is the deterministic default applied when an agent
// errors, times out or returns an illegal action: check when nothing is
// owed, otherwise fold. It is also the auto-action for human timeouts.
func FallbackDecision(toCall chips.Amount) Decision {
	if toCall == 0 {
		return Decision{Action: ActionCheck}
	}
	return Decision{Action: ActionFold}
}

// RuleAgent is a simple built-in policy driven by preflop hole card
// categories and made-hand strength after the flop. It never errors, so
// tables filled with rule agents always make progress without external
// dependencies.
type RuleAgent struct{}

func (RuleAgent) MakeDecision(_ context.Context, state *Snapshot, playerID string, valid []ValidAction) (Decision, error) {
	me := state.PlayerByID(playerID)
	if me == nil || len(me.HoleCards) != 2 {
		return Decision{Action: ActionCheck}, nil
	}

	toCall := state.MaxStreetBet() - me.BetThisStreet
	canCheck := toCall == 0

	aggression := 0
	if len(state.CommunityCards) == 0 {
		switch poker.CategorizeHoleCards(me.HoleCards[0], me.HoleCards[1]) {
		case poker.CategoryPremium:
			aggression = 2
		case poker.CategoryStrong, poker.CategoryMedium:
			aggression = 1
		case poker.CategoryWeak:
			if canCheck || toCall <= state.Settings.BigBlind {
				aggression = 1
			}
		}
	} else if ev, ok := poker.BestHand(me.HoleCards, state.CommunityCards); ok {
		switch {
		case ev.Category >= poker.TwoPair:
			aggression = 2
		case ev.Category >= poker.Pair:
			aggression = 1
		default:
			if canCheck {
				aggression = 1
			}
		}
	}

	switch aggression {
	case 2:
		if raise, ok := findAction(valid, ActionRaise); ok {
			return Decision{Action: ActionRaise, Amount: raise.Min}, nil
		}
		if bet, ok := findAction(valid, ActionBet); ok {
			return Decision{Action: ActionBet, Amount: bet.Min}, nil
		}
		fallthrough
	case 1:
		if _, ok := findAction(valid, ActionCall); ok {
			return Decision{Action: ActionCall}, nil
		}
		if canCheck {
			return Decision{Action: ActionCheck}, nil
		}
	}
	return FallbackDecision(toCall), nil
}

func findAction(valid []ValidAction, typ ActionType) (ValidAction, bool) {
	for _, v := range valid {
		if v.Type == typ {
			return v, true
		}
	}
	return ValidAction{}, false
}
