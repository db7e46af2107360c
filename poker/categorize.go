package poker

// HoleCardCategory is a coarse preflop strength bucket.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
)

// CategorizeHoleCards buckets two hole cards by preflop strength.
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (small pairs, suited connectors, suited aces), Trash (the rest).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	small, big := card1.Rank, card2.Rank
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit == card2.Suit
	isPair := small == big

	if isPair && small >= Jack {
		return CategoryPremium
	}
	if big == Ace && small == King {
		return CategoryPremium
	}

	if isPair && small == Ten {
		return CategoryStrong
	}
	if big == Ace && (small == Queen || small == Jack) {
		return CategoryStrong
	}

	if isPair && small >= Seven {
		return CategoryMedium
	}
	if suited && big >= Jack && small >= Jack {
		return CategoryMedium
	}

	if isPair {
		return CategoryWeak
	}
	if suited && big-small == 1 && big >= Six {
		return CategoryWeak
	}
	if suited && big == Ace {
		return CategoryWeak
	}

	return CategoryTrash
}
