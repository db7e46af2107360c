package game

import (
	"sort"

	"github.com/lox/tablestakes/internal/chips"
)

// Pot is one contiguous layer of matched contributions. Only the eligible
// players, contributors who have not folded, can win it.
type Pot struct {
	Amount            chips.Amount `json:"amount"`
	EligiblePlayerIDs []string     `json:"eligiblePlayerIds"`
}

// CalculatePots derives the main and side pots from per-player committed
// amounts. It is a pure function of the players' BetThisRound values and
// is recomputed in full after every chip-affecting action, never patched
// incrementally.
//
// Contribution levels are walked from lowest to highest; each level forms
// a layer sized (level - previousLevel) x contributorsAtLevel. Folded
// players' chips stay in the layers they reached but they are never
// eligible to win. A layer with no eligible player is dropped entirely
// (one cannot arise while any contributor remains unfolded at its level).
func CalculatePots(players []*Player) []Pot {
	var contributors []*Player
	for _, p := range players {
		if p.BetThisRound > 0 {
			contributors = append(contributors, p)
		}
	}
	if len(contributors) == 0 {
		return nil
	}

	levelSet := make(map[chips.Amount]struct{})
	for _, p := range contributors {
		levelSet[p.BetThisRound] = struct{}{}
	}
	levels := make([]chips.Amount, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []Pot
	var lastLevel chips.Amount
	for _, level := range levels {
		perPlayer := level - lastLevel
		if perPlayer <= 0 {
			continue
		}

		var count int
		var eligible []string
		for _, p := range contributors {
			if p.BetThisRound < level {
				continue
			}
			count++
			if !p.IsFolded {
				eligible = append(eligible, p.ID)
			}
		}

		if len(eligible) > 0 {
			pots = append(pots, Pot{
				Amount:            perPlayer * chips.Amount(count),
				EligiblePlayerIDs: eligible,
			})
		}
		lastLevel = level
	}
	return pots
}

// RefundUncallable returns pots with uncallable single-winner layers
// stripped, crediting each stripped layer back to its lone eligible
// player's stack. A layer is uncallable when no remaining opponent can
// still put in more chips: everyone else is folded or already all-in for
// less. Without the refund a player would be awarded their own uncalled
// raise as a win.
func RefundUncallable(pots []Pot, players []*Player) []Pot {
	byID := make(map[string]*Player, len(players))
	var active []*Player
	for _, p := range players {
		byID[p.ID] = p
		if !p.IsFolded && !p.IsSpectator {
			active = append(active, p)
		}
	}

	valid := pots[:0]
	for _, pot := range pots {
		if len(pot.EligiblePlayerIDs) != 1 {
			valid = append(valid, pot)
			continue
		}

		sole := byID[pot.EligiblePlayerIDs[0]]
		if sole == nil {
			valid = append(valid, pot)
			continue
		}

		callable := false
		for _, p := range active {
			if p.ID != sole.ID && !p.IsAllIn {
				callable = true
				break
			}
		}

		if !callable {
			sole.Chips += pot.Amount
			sole.BetThisRound -= pot.Amount
		} else {
			valid = append(valid, pot)
		}
	}
	return valid
}

// ResolveOddChips splits a pot among tied winners to the cent. Every
// winner gets floor(amount/winners); leftover cents go one at a time in
// seat order starting immediately left of the dealer seat, skipping
// non-winners, until exhausted. Deterministic for identical inputs.
func ResolveOddChips(amount chips.Amount, winners []*Player, dealerSeat int, players []*Player) map[string]chips.Amount {
	out := make(map[string]chips.Amount, len(winners))
	if len(winners) == 0 {
		return out
	}

	share := amount / chips.Amount(len(winners))
	remainder := amount % chips.Amount(len(winners))
	for _, w := range winners {
		out[w.ID] = share
	}
	if remainder == 0 {
		return out
	}

	winnerIDs := make(map[string]struct{}, len(winners))
	for _, w := range winners {
		winnerIDs[w.ID] = struct{}{}
	}

	seated := make([]*Player, len(players))
	copy(seated, players)
	sort.Slice(seated, func(i, j int) bool { return seated[i].SeatIndex < seated[j].SeatIndex })

	dealerPos := 0
	for i, p := range seated {
		if p.SeatIndex == dealerSeat {
			dealerPos = i
			break
		}
	}

	for i := 1; i <= len(seated) && remainder > 0; i++ {
		p := seated[(dealerPos+i)%len(seated)]
		if _, ok := winnerIDs[p.ID]; ok {
			out[p.ID] += chips.Cent
			remainder--
		}
	}
	return out
}

// PotTotal sums all pot layers.
func PotTotal(pots []Pot) chips.Amount {
	var total chips.Amount
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
