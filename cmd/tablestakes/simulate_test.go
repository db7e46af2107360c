package main

import (
	"strings"
	"testing"

	"github.com/lox/tablestakes/poker"
)

func TestSimulateRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name string
		cmd  SimulateCmd
		want string
	}{
		{
			name: "too few players",
			cmd:  SimulateCmd{Hands: 1, Players: 1, SmallBlind: "0.50", BigBlind: "1.00", Stack: "100.00"},
			want: "at least 2 players",
		},
		{
			name: "bad small blind",
			cmd:  SimulateCmd{Hands: 1, Players: 2, SmallBlind: "fifty", BigBlind: "1.00", Stack: "100.00"},
			want: "small blind",
		},
		{
			name: "bad stack",
			cmd:  SimulateCmd{Hands: 1, Players: 2, SmallBlind: "0.50", BigBlind: "1.00", Stack: "a pile"},
			want: "stack",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Run()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCardListFormatting(t *testing.T) {
	cards, err := poker.ParseCards("AsKd10h")
	if err != nil {
		t.Fatal(err)
	}
	if got := cardList(cards); got != "A♠ K♦ 10♥" {
		t.Errorf("cardList = %q", got)
	}
}
