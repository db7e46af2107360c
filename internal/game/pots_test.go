package game

import (
	"testing"

	"github.com/lox/tablestakes/internal/chips"
)

func contributor(id string, seat int, bet chips.Amount, folded, allIn bool) *Player {
	return &Player{
		ID:           id,
		Name:         id,
		SeatIndex:    seat,
		BetThisRound: bet,
		IsFolded:     folded,
		IsAllIn:      allIn,
	}
}

func TestCalculatePotsSingleLevel(t *testing.T) {
	players := []*Player{
		contributor("a", 0, 1000, false, false),
		contributor("b", 1, 1000, false, false),
		contributor("c", 2, 1000, false, false),
	}
	pots := CalculatePots(players)
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 3000 {
		t.Errorf("pot amount = %d, want 3000", pots[0].Amount)
	}
	if len(pots[0].EligiblePlayerIDs) != 3 {
		t.Errorf("eligible = %d, want 3", len(pots[0].EligiblePlayerIDs))
	}
}

func TestCalculatePotsSidePotLayers(t *testing.T) {
	// Short stack all in for 500, two others continue to 2000.
	players := []*Player{
		contributor("short", 0, 500, false, true),
		contributor("b", 1, 2000, false, false),
		contributor("c", 2, 2000, false, false),
	}
	pots := CalculatePots(players)
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2", len(pots))
	}
	if pots[0].Amount != 1500 {
		t.Errorf("main pot = %d, want 1500", pots[0].Amount)
	}
	if len(pots[0].EligiblePlayerIDs) != 3 {
		t.Errorf("main pot eligible = %d, want 3", len(pots[0].EligiblePlayerIDs))
	}
	if pots[1].Amount != 3000 {
		t.Errorf("side pot = %d, want 3000", pots[1].Amount)
	}
	if len(pots[1].EligiblePlayerIDs) != 2 {
		t.Errorf("side pot eligible = %d, want 2", len(pots[1].EligiblePlayerIDs))
	}
}

func TestCalculatePotsFoldedChipsStayIn(t *testing.T) {
	players := []*Player{
		contributor("folder", 0, 1000, true, false),
		contributor("b", 1, 1000, false, false),
		contributor("c", 2, 1000, false, false),
	}
	pots := CalculatePots(players)
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 3000 {
		t.Errorf("pot = %d, want 3000 including folded chips", pots[0].Amount)
	}
	for _, id := range pots[0].EligiblePlayerIDs {
		if id == "folder" {
			t.Error("folded player must not be eligible")
		}
	}
}

func TestRefundUncallableLayer(t *testing.T) {
	// One player all in at 1000, one folds after 1000, one bets 3000
	// that nobody can call.
	allIn := contributor("allin", 0, 1000, false, true)
	folder := contributor("folder", 1, 1000, true, false)
	bettor := contributor("bettor", 2, 3000, false, false)
	players := []*Player{allIn, folder, bettor}

	pots := RefundUncallable(CalculatePots(players), players)

	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1 after refund", len(pots))
	}
	if pots[0].Amount != 3000 {
		t.Errorf("contested pot = %d, want 3000", pots[0].Amount)
	}
	if bettor.Chips != 2000 {
		t.Errorf("bettor refunded %d, want 2000", bettor.Chips)
	}
	if bettor.BetThisRound != 1000 {
		t.Errorf("bettor betThisRound = %d, want 1000", bettor.BetThisRound)
	}
}

func TestRefundKeepsCallableLayer(t *testing.T) {
	// The lone eligible player's extra chips stay contestable while an
	// opponent can still call.
	players := []*Player{
		contributor("a", 0, 1000, false, false),
		contributor("b", 1, 3000, false, false),
	}
	pots := RefundUncallable(CalculatePots(players), players)
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2", len(pots))
	}
	if total := PotTotal(pots); total != 4000 {
		t.Errorf("total = %d, want 4000", total)
	}
}

func TestRefundKeepsPotWithUnknownEligible(t *testing.T) {
	// A singleton pot naming a player absent from the slice has nobody
	// to credit; the layer stays in play untouched.
	players := []*Player{
		contributor("a", 0, 1000, false, false),
	}
	pots := []Pot{{Amount: 500, EligiblePlayerIDs: []string{"ghost"}}}
	kept := RefundUncallable(pots, players)
	if len(kept) != 1 {
		t.Fatalf("got %d pots, want 1", len(kept))
	}
	if kept[0].Amount != 500 {
		t.Errorf("pot amount = %d, want 500", kept[0].Amount)
	}
	if players[0].Chips != 0 {
		t.Errorf("chips = %d, want 0", players[0].Chips)
	}
}

func TestPotTotalsMatchContributions(t *testing.T) {
	cases := [][]*Player{
		{
			contributor("a", 0, 250, false, true),
			contributor("b", 1, 1750, false, false),
			contributor("c", 2, 1750, false, false),
			contributor("d", 3, 900, true, false),
		},
		{
			contributor("a", 0, 100, false, true),
			contributor("b", 1, 300, false, true),
			contributor("c", 2, 700, false, true),
			contributor("d", 3, 700, false, false),
		},
		{
			contributor("a", 0, 50, true, false),
			contributor("b", 1, 50, false, false),
			contributor("c", 2, 50, false, false),
		},
	}
	for i, players := range cases {
		var contributed chips.Amount
		for _, p := range players {
			contributed += p.BetThisRound
		}

		var stacksBefore chips.Amount
		for _, p := range players {
			stacksBefore += p.Chips
		}

		pots := RefundUncallable(CalculatePots(players), players)

		var refunded chips.Amount
		for _, p := range players {
			refunded += p.Chips
		}
		refunded -= stacksBefore

		if got := PotTotal(pots) + refunded; got != contributed {
			t.Errorf("case %d: pots %d + refunds %d != contributions %d",
				i, PotTotal(pots), refunded, contributed)
		}
	}
}

func TestResolveOddChipsEvenSplit(t *testing.T) {
	a := contributor("a", 0, 0, false, false)
	b := contributor("b", 1, 0, false, false)
	dist := ResolveOddChips(1000, []*Player{a, b}, 0, []*Player{a, b})
	if dist["a"] != 500 || dist["b"] != 500 {
		t.Errorf("dist = %v, want 500 each", dist)
	}
}

func TestResolveOddChipsLeftOfDealerGetsExtra(t *testing.T) {
	// $10.01 split between seats 0 and 2 with the dealer at seat 0: the
	// first winner left of the dealer takes the extra cent.
	a := contributor("a", 0, 0, false, false)
	b := contributor("b", 1, 0, false, false)
	c := contributor("c", 2, 0, false, false)
	dist := ResolveOddChips(1001, []*Player{a, c}, 0, []*Player{a, b, c})
	if dist["c"] != 501 {
		t.Errorf("c = %d, want 501", dist["c"])
	}
	if dist["a"] != 500 {
		t.Errorf("a = %d, want 500", dist["a"])
	}
}

func TestResolveOddChipsSkipsNonWinners(t *testing.T) {
	// Two odd cents, three winners, dealer at seat 1: cents go to seats
	// 2 and 4, skipping the non-winner at seat 3.
	players := []*Player{
		contributor("a", 0, 0, false, false),
		contributor("dealer", 1, 0, false, false),
		contributor("c", 2, 0, false, false),
		contributor("d", 3, 0, false, false),
		contributor("e", 4, 0, false, false),
	}
	winners := []*Player{players[0], players[2], players[4]}
	dist := ResolveOddChips(1100, winners, 1, players)

	want := map[string]chips.Amount{"a": 366, "c": 367, "e": 367}
	for id, amt := range want {
		if dist[id] != amt {
			t.Errorf("%s = %d, want %d", id, dist[id], amt)
		}
	}
}

func TestResolveOddChipsConservesAmount(t *testing.T) {
	players := []*Player{
		contributor("a", 0, 0, false, false),
		contributor("b", 1, 0, false, false),
		contributor("c", 2, 0, false, false),
		contributor("d", 3, 0, false, false),
		contributor("e", 4, 0, false, false),
	}
	for winners := 1; winners <= len(players); winners++ {
		for _, amount := range []chips.Amount{1, 7, 99, 1001, 33333} {
			dist := ResolveOddChips(amount, players[:winners], 2, players)
			var sum chips.Amount
			for _, v := range dist {
				sum += v
			}
			if sum != amount {
				t.Errorf("winners=%d amount=%d: distributed %d", winners, amount, sum)
			}
		}
	}
}
