package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/tablestakes/poker"
)

// OddsCmd estimates showdown equity for a hand by Monte Carlo sampling.
type OddsCmd struct {
	Hand       string `arg:"" help:"Hole cards, e.g. 'AsKd'"`
	Board      string `short:"b" help:"Community cards, e.g. 'QsJs10s'"`
	Opponents  int    `short:"o" default:"1" help:"Number of opponents"`
	Iterations int    `short:"i" default:"100000" help:"Number of Monte Carlo iterations"`
	Seed       *int64 `help:"Random seed for reproducible results"`
}

var (
	oddsHandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	oddsWinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

func (c *OddsCmd) Run() error {
	hole, err := poker.ParseCards(c.Hand)
	if err != nil {
		return fmt.Errorf("parsing hand: %w", err)
	}

	var board []poker.Card
	if c.Board != "" {
		board, err = poker.ParseCards(c.Board)
		if err != nil {
			return fmt.Errorf("parsing board: %w", err)
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	equity, err := poker.Equity(hole, board, c.Opponents, c.Iterations, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %d opponent(s)", oddsHandStyle.Render(cardList(hole)), c.Opponents)
	if len(board) > 0 {
		fmt.Printf(" on %s", oddsHandStyle.Render(cardList(board)))
	}
	fmt.Printf(": %s equity (%d samples)\n", oddsWinStyle.Render(fmt.Sprintf("%.1f%%", equity*100)), c.Iterations)
	return nil
}

func cardList(cards []poker.Card) string {
	s := ""
	for i, c := range cards {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s
}
