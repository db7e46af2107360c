package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

// StartHand begins the first hand from the lobby. Subsequent hands start
// automatically when the previous one settles. Returns an error when the
// table cannot start; the state is unchanged.
func (t *Table) StartHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stage != StageLobby {
		return fmt.Errorf("a hand is already in progress")
	}
	return t.startHandLocked()
}

func (t *Table) startHandLocked() error {
	if t.settings.SmallBlind <= 0 || t.settings.BigBlind <= 0 {
		return fmt.Errorf("blinds are not configured")
	}

	t.applyApprovedRequestsLocked()

	var ready []*Player
	for _, p := range t.players {
		if !p.IsSpectator && p.IsReady && p.IsConnected {
			ready = append(ready, p)
		}
	}
	sortBySeat(ready)

	var funded []*Player
	for _, p := range ready {
		if p.Chips > 0 {
			funded = append(funded, p)
		}
	}

	if len(funded) < 2 {
		t.logSystemLocked(">>> Not enough players with chips to start.")
		t.log.Info("hand not started", "funded", len(funded))
		t.stage = StageLobby
		t.broadcastLocked()
		return fmt.Errorf("need at least 2 funded ready players, have %d", len(funded))
	}

	t.logStandingsLocked()

	t.stage = StagePreFlop
	t.muckChoiceID = ""
	t.muckRevealing = false
	t.muckStartedAt = time.Time{}
	t.lastActionID = ""
	t.lastStreetAction = "New hand dealt"
	t.deck = t.newDeck()
	t.community = nil

	// Everyone starts the hand folded; only funded ready players get
	// dealt in below. Spectators and busted players never enter turn
	// rotation or showdown this way.
	for _, p := range t.players {
		p.HoleCards = nil
		p.IsFolded = true
		p.BetThisRound = 0
		p.BetThisStreet = 0
		p.HasActedThisStreet = false
		p.IsWinner = false
		p.IsThinking = false
		p.IsRevealingFold = false
		p.HandDescription = ""
		p.LastAction = nil
		p.Role = ""
	}

	for _, p := range funded {
		p.HoleCards = t.deck.Deal(2)
		p.IsFolded = false
		p.IsAllIn = false
	}

	n := len(funded)
	dIdx := t.dealerIndex % n
	var sbIdx, bbIdx int
	if n == 2 {
		// Heads up the dealer posts the small blind and acts first
		// preflop.
		sbIdx = dIdx
		bbIdx = (dIdx + 1) % n
	} else {
		sbIdx = (dIdx + 1) % n
		bbIdx = (dIdx + 2) % n
	}

	funded[dIdx].Role = RoleDealer
	funded[sbIdx].Role = RoleSmallBlind
	funded[bbIdx].Role = RoleBigBlind
	t.dealerSeat = funded[dIdx].SeatIndex

	postBlind(funded[sbIdx], t.settings.SmallBlind)
	postBlind(funded[bbIdx], t.settings.BigBlind)

	t.lastRaiseAmount = t.settings.BigBlind
	t.minRaise = 2 * t.settings.BigBlind

	first := funded[(bbIdx+1)%n]
	if n == 2 {
		first = funded[sbIdx]
	}

	t.logSystemLocked(">>> Hand started.")
	t.log.Info("hand started",
		"players", n,
		"dealer", funded[dIdx].Name,
		"smallBlind", t.settings.SmallBlind,
		"bigBlind", t.settings.BigBlind)

	t.updatePotsLocked()
	t.setTurnLocked(first.ID)
	t.broadcastLocked()
	return nil
}

// postBlind commits a forced bet capped at the player's stack.
func postBlind(p *Player, blind chips.Amount) {
	amt := chips.Min(p.Chips, blind)
	p.Chips -= amt
	p.BetThisRound = amt
	p.BetThisStreet = amt
	if p.Chips == 0 {
		p.IsAllIn = true
	}
}

// logStandingsLocked posts every participant's lifetime net to the table
// log before the next deal.
func (t *Table) logStandingsLocked() {
	var standings []string
	for _, p := range t.players {
		if p.TotalBuyIn == 0 && p.TotalBuyOut == 0 && p.Chips == 0 {
			continue
		}
		net := p.Net()
		sign := ""
		if net >= 0 {
			sign = "+"
		}
		standings = append(standings, fmt.Sprintf("%s: %s%s", p.Name, sign, net))
	}
	if len(standings) > 0 {
		t.logSystemLocked(">>> STANDINGS: " + strings.Join(standings, " | "))
	}
}

// nextStageLocked advances to the next street, dealing community cards
// and resetting per-street state. With fewer than two players still able
// to act it keeps stepping streets on a delay until showdown (the
// run-out).
func (t *Table) nextStageLocked() {
	for _, p := range t.players {
		p.BetThisStreet = 0
		p.HasActedThisStreet = false
		p.LastAction = nil
	}
	t.lastRaiseAmount = 0
	t.minRaise = t.settings.BigBlind
	t.lastStreetAction = ""
	t.lastActionID = ""

	switch t.stage {
	case StagePreFlop:
		t.stage = StageFlop
		t.community = append(t.community, t.deck.Deal(3)...)
	case StageFlop:
		t.stage = StageTurn
		t.community = append(t.community, t.deck.DealOne())
	case StageTurn:
		t.stage = StageRiver
		t.community = append(t.community, t.deck.DealOne())
	default:
		t.settleHandLocked()
		return
	}

	t.log.Debug("street advanced", "stage", t.stage, "board", t.community)
	t.updatePotsLocked()

	var canAct int
	for _, p := range t.players {
		if p.CanAct() {
			canAct++
		}
	}
	if canAct < 2 {
		t.scheduleLocked(runOutDelay, func() { t.nextStageLocked() })
		t.broadcastLocked()
		return
	}

	seated := t.seatedLocked()
	cur := 0
	for i, p := range seated {
		if p.SeatIndex == t.dealerSeat {
			cur = i
			break
		}
	}
	next := (cur + 1) % len(seated)
	for seated[next].IsFolded || seated[next].IsAllIn {
		next = (next + 1) % len(seated)
	}

	t.setTurnLocked(seated[next].ID)
	t.broadcastLocked()
}

// settleHandLocked finishes the hand: evaluates the remaining hands,
// pays every pot and opens either the showdown reveal or the lone
// winner's reveal-or-muck choice.
func (t *Table) settleHandLocked() {
	t.currentTurnID = ""
	t.lastActionID = ""
	t.actionSeq++
	t.updatePotsLocked()

	var contenders []*Player
	for _, p := range t.players {
		if !p.IsSpectator && !p.IsFolded {
			contenders = append(contenders, p)
		}
	}

	for _, p := range contenders {
		if ev, ok := poker.BestHand(p.HoleCards, t.community); ok {
			p.HandDescription = ev.Label
		}
	}

	switch {
	case len(contenders) > 1:
		t.stage = StageShowdown
		t.payoutPotsLocked(contenders)
		t.muckRevealing = true
		t.scheduleLocked(showdownDelay, func() { t.resetForNextHandLocked() })

	case len(contenders) == 1:
		winner := contenders[0]
		winner.IsWinner = true
		t.payoutPotsLocked(contenders)
		t.muckChoiceID = winner.ID
		t.muckStartedAt = t.clock.Now()
		t.scheduleLocked(muckWindow, func() {
			if t.muckChoiceID == winner.ID {
				t.muckChoiceLocked(winner.ID, false)
			}
		})
	}

	t.broadcastLocked()
}

// payoutPotsLocked awards each pot layer to its best eligible hand(s),
// splitting ties with the odd-chip rule.
func (t *Table) payoutPotsLocked(contenders []*Player) {
	for i, pot := range t.pots {
		var eligible []*Player
		for _, p := range contenders {
			for _, id := range pot.EligiblePlayerIDs {
				if p.ID == id {
					eligible = append(eligible, p)
					break
				}
			}
		}
		if len(eligible) == 0 {
			continue
		}

		scores := make(map[string]int, len(eligible))
		best := -1
		for _, p := range eligible {
			var score int
			if ev, ok := poker.BestHand(p.HoleCards, t.community); ok {
				score = ev.Score
			}
			scores[p.ID] = score
			if score > best {
				best = score
			}
		}

		var winners []*Player
		for _, p := range eligible {
			if scores[p.ID] == best {
				winners = append(winners, p)
			}
		}

		dist := ResolveOddChips(pot.Amount, winners, t.dealerSeat, t.players)
		names := make([]string, 0, len(winners))
		for _, w := range winners {
			w.Chips += dist[w.ID]
			w.IsWinner = true
			names = append(names, w.Name)
		}

		potName := "Main Pot"
		if i > 0 {
			potName = fmt.Sprintf("Side Pot %d", i)
		}
		t.logSystemLocked(fmt.Sprintf("%s (%s) won by: %s",
			potName, pot.Amount, strings.Join(names, ", ")))
		t.log.Info("pot awarded",
			"pot", potName, "amount", pot.Amount, "winners", strings.Join(names, ", "))
	}
}

// SubmitMuckChoice lets the lone winner reveal or hide their hand before
// the next deal. Ignored unless the choice window is theirs.
func (t *Table) SubmitMuckChoice(playerID string, show bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.muckChoiceID != playerID {
		return
	}
	t.muckChoiceLocked(playerID, show)
}

func (t *Table) muckChoiceLocked(playerID string, show bool) {
	if show {
		t.muckChoiceID = ""
		t.muckRevealing = true
		if p := t.playerByIDLocked(playerID); p != nil {
			p.IsRevealingFold = true
		}
		t.broadcastLocked()
		t.scheduleLocked(revealDelay, func() {
			t.muckRevealing = false
			t.resetForNextHandLocked()
		})
		return
	}

	t.muckChoiceID = ""
	t.resetForNextHandLocked()
}

// RevealFoldedHand voluntarily shows a folded player's hole cards after a
// hand. Display only; payouts are unaffected.
func (t *Table) RevealFoldedHand(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByIDLocked(playerID)
	if p == nil || len(p.HoleCards) == 0 {
		return
	}
	p.IsRevealingFold = true
	t.broadcastLocked()
}

// resetForNextHandLocked advances the button and deals again, or returns
// to the lobby when fewer than two funded players remain.
func (t *Table) resetForNextHandLocked() {
	var funded int
	for _, p := range t.players {
		if !p.IsSpectator && p.Chips > 0 && p.IsConnected {
			funded++
		}
	}
	if funded < 2 {
		t.stage = StageLobby
		t.currentTurnID = ""
		t.muckChoiceID = ""
		t.log.Info("returning to lobby", "funded", funded)
		t.broadcastLocked()
		return
	}

	t.dealerIndex = (t.dealerIndex + 1) % funded
	if err := t.startHandLocked(); err != nil {
		t.stage = StageLobby
		t.broadcastLocked()
	}
}

func sortBySeat(players []*Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].SeatIndex < players[j].SeatIndex
	})
}
