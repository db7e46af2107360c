package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

func TestFallbackDecision(t *testing.T) {
	assert.Equal(t, ActionCheck, FallbackDecision(0).Action)
	assert.Equal(t, ActionFold, FallbackDecision(100).Action)
}

func TestRuleAgentPreflop(t *testing.T) {
	tests := []struct {
		name  string
		hole  []poker.Card
		want  ActionType
	}{
		{
			"premium raises",
			[]poker.Card{poker.NewCard(poker.Ace, poker.Spades), poker.NewCard(poker.Ace, poker.Hearts)},
			ActionRaise,
		},
		{
			"strong calls",
			[]poker.Card{poker.NewCard(poker.Ace, poker.Spades), poker.NewCard(poker.Queen, poker.Hearts)},
			ActionCall,
		},
		{
			"trash folds a big bet",
			[]poker.Card{poker.NewCard(poker.Seven, poker.Spades), poker.NewCard(poker.Two, poker.Hearts)},
			ActionFold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &Snapshot{
				Settings: testSettings(),
				Players: []*Player{
					{ID: "me", HoleCards: tt.hole, BetThisStreet: 0, Chips: 10000},
					{ID: "villain", BetThisStreet: 600},
				},
			}
			valid := []ValidAction{
				{Type: ActionFold},
				{Type: ActionCall, Min: 600},
				{Type: ActionRaise, Min: 1200, Max: 10000},
			}

			d, err := (RuleAgent{}).MakeDecision(context.Background(), snap, "me", valid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Action)
		})
	}
}

func TestRuleAgentChecksWeakHandsForFree(t *testing.T) {
	snap := &Snapshot{
		Settings: testSettings(),
		Players: []*Player{
			{
				ID: "me",
				HoleCards: []poker.Card{
					poker.NewCard(poker.Seven, poker.Spades),
					poker.NewCard(poker.Two, poker.Hearts),
				},
				Chips: 10000,
			},
		},
		CommunityCards: []poker.Card{
			poker.NewCard(poker.Ace, poker.Clubs),
			poker.NewCard(poker.King, poker.Diamonds),
			poker.NewCard(poker.Nine, poker.Hearts),
		},
	}
	valid := []ValidAction{
		{Type: ActionFold},
		{Type: ActionCheck},
		{Type: ActionBet, Min: 200, Max: 10000},
	}

	d, err := (RuleAgent{}).MakeDecision(context.Background(), snap, "me", valid)
	require.NoError(t, err)
	assert.Equal(t, ActionCheck, d.Action)
}

// blockingAgent parks until released, standing in for a slow external
// decision source.
type blockingAgent struct {
	release  chan Decision
	returned chan struct{}
}

func (a *blockingAgent) MakeDecision(ctx context.Context, _ *Snapshot, _ string, _ []ValidAction) (Decision, error) {
	select {
	case d := <-a.release:
		defer close(a.returned)
		return d, nil
	case <-ctx.Done():
		defer close(a.returned)
		return Decision{}, ctx.Err()
	}
}

func TestStaleAgentDecisionDiscarded(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	agent := &blockingAgent{release: make(chan Decision), returned: make(chan struct{})}
	tbl.SetAgent("a", agent)

	require.NoError(t, tbl.StartHand())
	require.Equal(t, "a", tbl.Snapshot().CurrentTurnPlayerID)

	// The action timer fires while the agent is still thinking.
	advance(t, mock, 20*time.Second)
	require.True(t, tbl.Snapshot().PlayerByID("a").IsFolded)
	require.Equal(t, "b", tbl.Snapshot().MuckChoicePlayerID)

	// The late decision must be discarded, not applied.
	agent.release <- Decision{Action: ActionRaise, Amount: 5000}
	<-agent.returned
	time.Sleep(50 * time.Millisecond)

	snap := tbl.Snapshot()
	assert.True(t, snap.PlayerByID("a").IsFolded)
	assert.Equal(t, "b", snap.MuckChoicePlayerID)
	assert.Equal(t, chips.Amount(9900), snap.PlayerByID("a").Chips)
}

// erroringAgent always fails, forcing the deterministic fallback.
type erroringAgent struct{}

func (erroringAgent) MakeDecision(context.Context, *Snapshot, string, []ValidAction) (Decision, error) {
	return Decision{}, errors.New("decision source unavailable")
}

func TestAgentErrorFallsBack(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	tbl.SetAgent("a", erroringAgent{})
	require.NoError(t, tbl.StartHand())

	// a owes the big blind; the fallback folds.
	require.Eventually(t, func() bool {
		return tbl.Snapshot().PlayerByID("a").IsFolded
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "b", tbl.Snapshot().MuckChoicePlayerID)
}

// fixedAgent returns the same decision every turn.
type fixedAgent struct {
	d Decision
}

func (a fixedAgent) MakeDecision(context.Context, *Snapshot, string, []ValidAction) (Decision, error) {
	return a.d, nil
}

func TestAgentRaiseClampedToLegalRange(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	// An undersized raise is nudged up to the minimum.
	tbl.SetAgent("a", fixedAgent{Decision{Action: ActionRaise, Amount: 250}})
	require.NoError(t, tbl.StartHand())

	require.Eventually(t, func() bool {
		return tbl.Snapshot().PlayerByID("a").BetThisStreet == 400
	}, time.Second, 10*time.Millisecond)
}

func TestBotsPlayFullHand(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	tbl.FillAIs()
	require.NoError(t, tbl.StartHand())

	total := chips.Amount(10) * testSettings().StartingStack
	deadline := time.Now().Add(10 * time.Second)
	for {
		require.Less(t, time.Now(), deadline, "hand never settled")

		snap := tbl.Snapshot()

		if snap.Stage == StageShowdown || snap.MuckChoicePlayerID != "" || snap.Stage == StageLobby {
			// Everything contributed is back in stacks once the hand
			// settles.
			var stacks chips.Amount
			for _, p := range snap.Players {
				stacks += p.Chips
			}
			require.Equal(t, total, stacks, "chips conserved through settlement")
			return
		}

		var onTable chips.Amount
		for _, p := range snap.Players {
			onTable += p.Chips + p.BetThisRound
		}
		require.Equal(t, total, onTable, "chips conserved mid-hand")

		// Let in-flight agent decisions land, then step to the next
		// scheduled settle, run-out or timeout. The mock clock refuses
		// to jump past a pending event, so advance by exactly the gap
		// Peek reports.
		time.Sleep(5 * time.Millisecond)
		if d, ok := mock.Peek(); ok {
			advance(t, mock, d)
		}
	}
}
