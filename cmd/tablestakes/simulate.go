package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/internal/game"
)

// SimulateCmd fills a table with the built-in agents and lets them play.
type SimulateCmd struct {
	Hands      int    `kong:"default='10',help='Number of hands to play'"`
	Players    int    `kong:"default='6',help='Number of agents to seat'"`
	SmallBlind string `kong:"default='0.50',help='Small blind in dollars'"`
	BigBlind   string `kong:"default='1.00',help='Big blind in dollars'"`
	Stack      string `kong:"default='100.00',help='Starting stack in dollars'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
	Timeout    int    `kong:"default='600',help='Overall timeout in seconds'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger("info", c.Debug)

	if c.Players < 2 {
		return fmt.Errorf("need at least 2 players, got %d", c.Players)
	}

	sb, err := chips.Parse(c.SmallBlind)
	if err != nil {
		return fmt.Errorf("small blind: %w", err)
	}
	bb, err := chips.Parse(c.BigBlind)
	if err != nil {
		return fmt.Errorf("big blind: %w", err)
	}
	stack, err := chips.Parse(c.Stack)
	if err != nil {
		return fmt.Errorf("stack: %w", err)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Simulating", "hands", c.Hands, "players", c.Players, "seed", seed)

	settings := game.DefaultSettings()
	settings.MaxPlayers = c.Players
	settings.SmallBlind = sb
	settings.BigBlind = bb
	settings.StartingStack = stack

	table := game.NewTable("simulation",
		game.WithLogger(logger),
		game.WithSettings(settings),
		game.WithRNG(rand.New(rand.NewSource(seed))),
	)
	defer table.Close()

	table.FillAIs()

	snapshots, cancel := table.Subscribe(256)
	defer cancel()

	if err := table.StartHand(); err != nil {
		return err
	}

	deadline := time.After(time.Duration(c.Timeout) * time.Second)
	started := 0
	prevStage := game.StageLobby
	last := table.Snapshot()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return fmt.Errorf("table closed mid-simulation")
			}
			if snap.Stage == game.StagePreFlop && prevStage != game.StagePreFlop {
				started++
				if started > c.Hands {
					printStandings(last)
					return nil
				}
				logger.Info("Hand started", "hand", started)
			}
			if snap.Stage == game.StageLobby && prevStage != game.StageLobby {
				logger.Info("Table returned to lobby, stopping early")
				printStandings(snap)
				return nil
			}
			prevStage = snap.Stage
			last = snap
		case <-deadline:
			return fmt.Errorf("simulation timed out after %ds", c.Timeout)
		}
	}
}

func printStandings(snap *game.Snapshot) {
	fmt.Println("Standings:")
	for _, p := range snap.Players {
		if p.IsSpectator {
			continue
		}
		net := p.Net()
		sign := "+"
		if net < 0 {
			sign = ""
		}
		fmt.Printf("  %-12s stack %s  net %s%s\n", p.Name, p.Chips, sign, net)
	}
}
