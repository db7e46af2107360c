package poker

import (
	"fmt"
	"sort"
)

// Category enumerates hand categories ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score bands. Each category occupies a disjoint range: within a band the
// positional base-15 encoding of the ranks used for comparison is strictly
// below bandWidth (15^5 = 759375), so bands never overlap.
const (
	scoreRadix = 15
	bandWidth  = scoreRadix * scoreRadix * scoreRadix * scoreRadix * scoreRadix
)

// Evaluation is the result of ranking a set of cards.
type Evaluation struct {
	Score    int      // Total order: higher score beats lower, ties only for identical hands
	Category Category // Detected category
	Label    string   // Human-readable label ("Royal Flush" for ace-high straight flush)
	BestFive []Card   // The literal five cards substantiating the category
}

// Beats reports whether e outranks other.
func (e Evaluation) Beats(other Evaluation) bool {
	return e.Score > other.Score
}

// rankGroup is a set of same-rank cards in first-encountered order.
type rankGroup struct {
	rank  Rank
	cards []Card
}

// Evaluate ranks a 5-7 card set into a comparable score, category and the
// best five cards. Input order never affects the result: cards are first
// stably sorted by descending rank, and ties among duplicate-rank cards
// break by first occurrence in that sorted order.
func Evaluate(cards []Card) (Evaluation, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Evaluation{}, fmt.Errorf("evaluate requires 5 to 7 cards, got %d", len(cards))
	}

	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		// Secondary key keeps the result independent of input order.
		return sorted[i].Suit < sorted[j].Suit
	})

	byRank := groupByRank(sorted)
	bySuit := groupBySuit(sorted)

	var flushCards []Card
	for _, cs := range bySuit {
		if len(cs) >= 5 {
			flushCards = cs
			break
		}
	}

	uniqueRanks := make([]Rank, 0, len(byRank))
	for _, g := range byRank {
		uniqueRanks = append(uniqueRanks, g.rank)
	}

	straightHigh := findStraightHigh(uniqueRanks)

	// Straight flush (wheel and royal included)
	if len(flushCards) > 0 {
		fRanks := uniqueRanksOf(flushCards)
		if sfHigh := findStraightHigh(fRanks); sfHigh != 0 {
			best := straightCards(flushCards, sfHigh)
			label := "Straight Flush"
			if sfHigh == Ace {
				label = "Royal Flush"
			}
			return Evaluation{
				Score:    band(StraightFlush) + encode(int(sfHigh)),
				Category: StraightFlush,
				Label:    label,
				BestFive: best,
			}, nil
		}
	}

	var quads, trips, pairs []rankGroup
	for _, g := range byRank {
		switch len(g.cards) {
		case 4:
			quads = append(quads, g)
		case 3:
			trips = append(trips, g)
		case 2:
			pairs = append(pairs, g)
		}
	}

	if len(quads) > 0 {
		q := quads[0]
		kicker := firstExcluding(sorted, q.rank)
		return Evaluation{
			Score:    band(FourOfAKind) + encode(int(q.rank), int(kicker.Rank)),
			Category: FourOfAKind,
			Label:    FourOfAKind.String(),
			BestFive: append(append([]Card{}, q.cards...), kicker),
		}, nil
	}

	// Full house: a second triplet may supply the pair.
	if len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0) {
		main := trips[0]
		var second []Card
		if len(trips) > 1 {
			second = trips[1].cards[:2]
		} else {
			second = pairs[0].cards
		}
		return Evaluation{
			Score:    band(FullHouse) + encode(int(main.rank), int(second[0].Rank)),
			Category: FullHouse,
			Label:    FullHouse.String(),
			BestFive: append(append([]Card{}, main.cards...), second...),
		}, nil
	}

	if len(flushCards) > 0 {
		top5 := flushCards[:5]
		return Evaluation{
			Score:    band(Flush) + encodeCards(top5),
			Category: Flush,
			Label:    Flush.String(),
			BestFive: append([]Card{}, top5...),
		}, nil
	}

	if straightHigh != 0 {
		return Evaluation{
			Score:    band(Straight) + encode(int(straightHigh)),
			Category: Straight,
			Label:    Straight.String(),
			BestFive: straightCards(sorted, straightHigh),
		}, nil
	}

	if len(trips) > 0 {
		t := trips[0]
		kickers := excluding(sorted, 2, t.rank)
		return Evaluation{
			Score:    band(ThreeOfAKind) + encode(int(t.rank), int(kickers[0].Rank), int(kickers[1].Rank)),
			Category: ThreeOfAKind,
			Label:    ThreeOfAKind.String(),
			BestFive: append(append([]Card{}, t.cards...), kickers...),
		}, nil
	}

	if len(pairs) >= 2 {
		p1, p2 := pairs[0], pairs[1]
		kicker := firstExcluding(sorted, p1.rank, p2.rank)
		best := append(append([]Card{}, p1.cards...), p2.cards...)
		return Evaluation{
			Score:    band(TwoPair) + encode(int(p1.rank), int(p2.rank), int(kicker.Rank)),
			Category: TwoPair,
			Label:    TwoPair.String(),
			BestFive: append(best, kicker),
		}, nil
	}

	if len(pairs) == 1 {
		p := pairs[0]
		kickers := excluding(sorted, 3, p.rank)
		return Evaluation{
			Score: band(Pair) + encode(int(p.rank),
				int(kickers[0].Rank), int(kickers[1].Rank), int(kickers[2].Rank)),
			Category: Pair,
			Label:    Pair.String(),
			BestFive: append(append([]Card{}, p.cards...), kickers...),
		}, nil
	}

	top5 := sorted[:5]
	return Evaluation{
		Score:    band(HighCard) + encodeCards(top5),
		Category: HighCard,
		Label:    HighCard.String(),
		BestFive: append([]Card{}, top5...),
	}, nil
}

// BestHand evaluates hole cards plus board. Returns false when fewer than
// five cards are available (pre-flop).
func BestHand(holeCards, board []Card) (Evaluation, bool) {
	all := make([]Card, 0, len(holeCards)+len(board))
	all = append(all, holeCards...)
	all = append(all, board...)
	if len(all) < 5 {
		return Evaluation{}, false
	}
	ev, err := Evaluate(all)
	if err != nil {
		return Evaluation{}, false
	}
	return ev, true
}

// band returns the base score for a category. Bands are bandWidth apart so
// any hand of a higher category outscores any hand of a lower one.
func band(c Category) int {
	return (int(c) + 1) * bandWidth
}

// encode packs rank values into a positional base-15 number, most
// significant first. Every value is 2..14, strictly below the radix.
func encode(values ...int) int {
	score := 0
	for _, v := range values {
		score = score*scoreRadix + v
	}
	return score
}

func encodeCards(cards []Card) int {
	score := 0
	for _, c := range cards {
		score = score*scoreRadix + int(c.Rank)
	}
	return score
}

// groupByRank groups rank-descending sorted cards preserving order.
func groupByRank(sorted []Card) []rankGroup {
	var groups []rankGroup
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, cards: []Card{c}})
	}
	return groups
}

// groupBySuit groups rank-descending sorted cards by suit, preserving the
// descending rank order inside each group.
func groupBySuit(sorted []Card) map[Suit][]Card {
	groups := make(map[Suit][]Card, 4)
	for _, c := range sorted {
		groups[c.Suit] = append(groups[c.Suit], c)
	}
	return groups
}

func uniqueRanksOf(sorted []Card) []Rank {
	ranks := make([]Rank, 0, len(sorted))
	for _, c := range sorted {
		if n := len(ranks); n > 0 && ranks[n-1] == c.Rank {
			continue
		}
		ranks = append(ranks, c.Rank)
	}
	return ranks
}

// findStraightHigh returns the high rank of the best straight formed by the
// given descending unique ranks, or 0 when none exists. The wheel
// (A-2-3-4-5) counts with a high of Five.
func findStraightHigh(uniqueDesc []Rank) Rank {
	for i := 0; i+4 < len(uniqueDesc); i++ {
		if uniqueDesc[i]-uniqueDesc[i+4] == 4 {
			return uniqueDesc[i]
		}
	}
	if containsAll(uniqueDesc, Ace, Five, Four, Three, Two) {
		return Five
	}
	return 0
}

func containsAll(ranks []Rank, want ...Rank) bool {
	for _, w := range want {
		found := false
		for _, r := range ranks {
			if r == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// straightCards picks one card per straight rank from the (rank-descending)
// pool, always taking the first occurrence of each rank.
func straightCards(pool []Card, high Rank) []Card {
	want := make([]Rank, 0, 5)
	if high == Five {
		want = append(want, Five, Four, Three, Two, Ace)
	} else {
		for r := high; r > high-5; r-- {
			want = append(want, r)
		}
	}

	cards := make([]Card, 0, 5)
	for _, r := range want {
		for _, c := range pool {
			if c.Rank == r {
				cards = append(cards, c)
				break
			}
		}
	}
	return cards
}

// firstExcluding returns the highest card whose rank is not in exclude.
func firstExcluding(sorted []Card, exclude ...Rank) Card {
	for _, c := range sorted {
		if !rankIn(c.Rank, exclude) {
			return c
		}
	}
	return Card{}
}

// excluding returns the top n cards whose ranks are not in exclude.
func excluding(sorted []Card, n int, exclude ...Rank) []Card {
	out := make([]Card, 0, n)
	for _, c := range sorted {
		if rankIn(c.Rank, exclude) {
			continue
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

func rankIn(r Rank, set []Rank) bool {
	for _, s := range set {
		if s == r {
			return true
		}
	}
	return false
}
