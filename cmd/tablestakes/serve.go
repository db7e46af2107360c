package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/tablestakes/internal/game"
	"github.com/lox/tablestakes/internal/server"
)

// ServeCmd hosts a single room.
type ServeCmd struct {
	Config string `kong:"default='tablestakes.hcl',help='Path to HCL configuration file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Server.LogLevel, c.Debug)

	settings, err := cfg.TableSettings()
	if err != nil {
		return err
	}

	table := game.NewTable(cfg.Table.RoomID,
		game.WithLogger(logger),
		game.WithSettings(settings),
	)

	srv := server.NewServer(cfg.ListenAddr(), table, logger)

	logger.Info("Starting room",
		"room", cfg.Table.RoomID,
		"addr", cfg.ListenAddr(),
		"small_blind", settings.SmallBlind,
		"big_blind", settings.BigBlind,
		"starting_stack", settings.StartingStack,
		"max_players", settings.MaxPlayers,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case s := <-sig:
		logger.Info("Shutting down", "signal", s)
		return srv.Stop()
	}
}

func setupLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
