package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableConfig    `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines the hosted table. Monetary values are dollar
// strings like "0.50".
type TableConfig struct {
	RoomID             string `hcl:"room_id,optional"`
	MaxPlayers         int    `hcl:"max_players,optional"`
	StartingStack      string `hcl:"starting_stack,optional"`
	SmallBlind         string `hcl:"small_blind,optional"`
	BigBlind           string `hcl:"big_blind,optional"`
	ActionTimerSeconds int    `hcl:"action_timer_seconds,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableConfig{
			RoomID:             "main",
			MaxPlayers:         10,
			StartingStack:      "100.00",
			SmallBlind:         "0.50",
			BigBlind:           "1.00",
			ActionTimerSeconds: 20,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist or omits values.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Table.RoomID == "" {
		config.Table.RoomID = defaults.Table.RoomID
	}
	if config.Table.MaxPlayers == 0 {
		config.Table.MaxPlayers = defaults.Table.MaxPlayers
	}
	if config.Table.StartingStack == "" {
		config.Table.StartingStack = defaults.Table.StartingStack
	}
	if config.Table.SmallBlind == "" {
		config.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if config.Table.BigBlind == "" {
		config.Table.BigBlind = defaults.Table.BigBlind
	}
	if config.Table.ActionTimerSeconds == 0 {
		config.Table.ActionTimerSeconds = defaults.Table.ActionTimerSeconds
	}
	return &config, nil
}

// ListenAddr is the host:port the server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableSettings converts the configured table into engine settings.
func (c *Config) TableSettings() (game.Settings, error) {
	stack, err := chips.Parse(c.Table.StartingStack)
	if err != nil {
		return game.Settings{}, fmt.Errorf("starting_stack: %w", err)
	}
	sb, err := chips.Parse(c.Table.SmallBlind)
	if err != nil {
		return game.Settings{}, fmt.Errorf("small_blind: %w", err)
	}
	bb, err := chips.Parse(c.Table.BigBlind)
	if err != nil {
		return game.Settings{}, fmt.Errorf("big_blind: %w", err)
	}
	return game.Settings{
		MaxPlayers:    c.Table.MaxPlayers,
		StartingStack: stack,
		SmallBlind:    sb,
		BigBlind:      bb,
		ActionTimer:   time.Duration(c.Table.ActionTimerSeconds) * time.Second,
	}, nil
}
