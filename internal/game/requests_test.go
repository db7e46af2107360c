package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tablestakes/internal/chips"
)

func TestBuyInAppliedAtNextHandStart(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	require.NoError(t, tbl.RequestFunds("b", RequestBuyIn, 5000))

	snap := tbl.Snapshot()
	require.Len(t, snap.PendingRequests, 1)
	reqID := snap.PendingRequests[0].ID
	assert.Equal(t, RequestPending, snap.PendingRequests[0].Status)

	require.Error(t, tbl.ResolveRequest("b", reqID, true), "only the host resolves")
	require.NoError(t, tbl.ResolveRequest("a", reqID, true))

	// Approval alone changes nothing.
	snap = tbl.Snapshot()
	assert.Equal(t, chips.Amount(10000), snap.PlayerByID("b").Chips)
	assert.Equal(t, RequestApproved, snap.PendingRequests[0].Status)

	require.NoError(t, tbl.StartHand())

	snap = tbl.Snapshot()
	b := snap.PlayerByID("b")
	assert.Equal(t, chips.Amount(15000), b.Chips+b.BetThisStreet)
	assert.Equal(t, chips.Amount(15000), b.TotalBuyIn)
	assert.Empty(t, snap.PendingRequests)
}

func TestDeniedRequestDropsWithoutEffect(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	require.NoError(t, tbl.RequestFunds("b", RequestBuyIn, 5000))
	reqID := tbl.Snapshot().PendingRequests[0].ID

	require.NoError(t, tbl.ResolveRequest("a", reqID, false))
	assert.Empty(t, tbl.Snapshot().PendingRequests)

	require.NoError(t, tbl.StartHand())
	b := tbl.Snapshot().PlayerByID("b")
	assert.Equal(t, chips.Amount(10000), b.Chips+b.BetThisStreet)
}

func TestCashOutClampedToLiveStack(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	// b asks to take off far more than they hold.
	require.NoError(t, tbl.RequestFunds("b", RequestBuyOut, 50000))
	reqID := tbl.Snapshot().PendingRequests[0].ID
	require.NoError(t, tbl.ResolveRequest("a", reqID, true))

	// The clamp empties b's stack, so the hand cannot start.
	require.Error(t, tbl.StartHand())

	snap := tbl.Snapshot()
	b := snap.PlayerByID("b")
	assert.Equal(t, chips.Amount(0), b.Chips)
	assert.Equal(t, chips.Amount(10000), b.TotalBuyOut, "clamped to the live stack")
	assert.Equal(t, StageLobby, snap.Stage)
}

func TestRequestValidation(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a")

	assert.Error(t, tbl.RequestFunds("ghost", RequestBuyIn, 100))
	assert.Error(t, tbl.RequestFunds("a", RequestBuyIn, 0))
	assert.Error(t, tbl.RequestFunds("a", RequestBuyIn, -500))
	assert.Error(t, tbl.ResolveRequest("a", "no-such-request", true))
}

func TestPendingRequestsSurviveHands(t *testing.T) {
	mock := quartz.NewMock(t)
	tbl := newTestTable(t, mock, testSettings())
	seatReadyPlayers(tbl, "a", "b")

	require.NoError(t, tbl.RequestFunds("b", RequestBuyIn, 5000))
	require.NoError(t, tbl.StartHand())

	// Unresolved requests stay queued across a hand start.
	snap := tbl.Snapshot()
	require.Len(t, snap.PendingRequests, 1)
	assert.Equal(t, RequestPending, snap.PendingRequests[0].Status)
}
