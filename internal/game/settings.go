package game

import (
	"time"

	"github.com/lox/tablestakes/internal/chips"
)

// Settings are the table parameters the host controls from the lobby.
type Settings struct {
	MaxPlayers    int           `json:"maxPlayers"`
	StartingStack chips.Amount  `json:"startingStack"`
	SmallBlind    chips.Amount  `json:"smallBlind"`
	BigBlind      chips.Amount  `json:"bigBlind"`
	ActionTimer   time.Duration `json:"actionTimer"`
}

// DefaultSettings mirrors a fresh table before the host configures stakes.
// Blinds start at zero, so a hand cannot start until they are set.
func DefaultSettings() Settings {
	return Settings{
		MaxPlayers:  10,
		ActionTimer: 20 * time.Second,
	}
}

// SettingsPatch is a partial settings update. Nil fields are left
// unchanged.
type SettingsPatch struct {
	MaxPlayers    *int           `json:"maxPlayers,omitempty"`
	StartingStack *chips.Amount  `json:"startingStack,omitempty"`
	SmallBlind    *chips.Amount  `json:"smallBlind,omitempty"`
	BigBlind      *chips.Amount  `json:"bigBlind,omitempty"`
	ActionTimer   *time.Duration `json:"actionTimer,omitempty"`
}

func (s Settings) apply(patch SettingsPatch) Settings {
	if patch.MaxPlayers != nil {
		s.MaxPlayers = *patch.MaxPlayers
	}
	if patch.StartingStack != nil {
		s.StartingStack = *patch.StartingStack
	}
	if patch.SmallBlind != nil {
		s.SmallBlind = *patch.SmallBlind
	}
	if patch.BigBlind != nil {
		s.BigBlind = *patch.BigBlind
	}
	if patch.ActionTimer != nil {
		s.ActionTimer = *patch.ActionTimer
	}
	return s
}
