// Package poker provides card primitives and hand evaluation for
// No-Limit Hold'em. Evaluation produces an integer score that totally
// orders any two hands of five to seven cards.
package poker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single-letter wire form of a suit (s, h, d, c).
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card. It is an immutable value type.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// cardJSON is the wire form of a card.
type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON encodes a card as {"rank":"A","suit":"s"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Rank: c.Rank.String(), Suit: c.Suit.Letter()})
}

// UnmarshalJSON decodes the wire form of a card.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	rank, err := parseRank(cj.Rank)
	if err != nil {
		return err
	}
	suit, err := parseSuit(cj.Suit)
	if err != nil {
		return err
	}

	c.Rank = rank
	c.Suit = suit
	return nil
}

// ParseCard parses a string like "As", "td" or "10h" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card: %q", s)
	}
	rank, err := parseRank(strings.ToUpper(s[:len(s)-1]))
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(strings.ToLower(s[len(s)-1:]))
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a compact or space separated card list like "AsKd"
// or "As Kd Qh".
func ParseCards(s string) ([]Card, error) {
	var cards []Card
	for _, field := range strings.Fields(s) {
		for len(field) > 0 {
			n := 2
			if strings.HasPrefix(field, "10") {
				n = 3
			}
			if len(field) < n {
				return nil, fmt.Errorf("invalid cards: %q", s)
			}
			c, err := ParseCard(field[:n])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
			field = field[n:]
		}
	}
	return cards, nil
}

func parseRank(s string) (Rank, error) {
	switch s {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(s[0] - '0'), nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
}

func parseSuit(s string) (Suit, error) {
	switch s {
	case "s", "♠":
		return Spades, nil
	case "h", "♥":
		return Hearts, nil
	case "d", "♦":
		return Diamonds, nil
	case "c", "♣":
		return Clubs, nil
	default:
		return 0, fmt.Errorf("invalid suit: %q", s)
	}
}
