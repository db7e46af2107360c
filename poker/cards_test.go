package poker

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Ace, Spades), "A♠"},
		{NewCard(Ten, Hearts), "10♥"},
		{NewCard(Two, Clubs), "2♣"},
		{NewCard(Queen, Diamonds), "Q♦"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.card, got, tt.want)
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := NewCard(King, Diamonds)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatal(err)
	}
	var got Card
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != card {
		t.Errorf("round trip = %v, want %v", got, card)
	}
}

func TestCardUnmarshalRejectsGarbage(t *testing.T) {
	var c Card
	if err := json.Unmarshal([]byte(`{"rank":"1","suit":"spades"}`), &c); err == nil {
		t.Error("expected error for bad rank")
	}
	if err := json.Unmarshal([]byte(`{"rank":"A","suit":"wands"}`), &c); err == nil {
		t.Error("expected error for bad suit")
	}
}

func TestDeckDealsAllCardsOnce(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	deck.Shuffle()

	seen := make(map[Card]bool)
	for deck.CardsRemaining() > 0 {
		c := deck.DealOne()
		if seen[c] {
			t.Fatalf("card %v dealt twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestDeckShuffleIsSeedDeterministic(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(99)))
	b := NewDeck(rand.New(rand.NewSource(99)))
	a.Shuffle()
	b.Shuffle()
	for i := 0; i < 52; i++ {
		if ca, cb := a.DealOne(), b.DealOne(); ca != cb {
			t.Fatalf("position %d differs: %v vs %v", i, ca, cb)
		}
	}
}
