package game

// Stage identifies where the table is in the hand lifecycle.
type Stage string

const (
	StageLobby    Stage = "lobby"
	StagePreFlop  Stage = "preflop"
	StageFlop     Stage = "flop"
	StageTurn     Stage = "turn"
	StageRiver    Stage = "river"
	StageShowdown Stage = "showdown"
)

// InHand reports whether a hand is currently being played.
func (s Stage) InHand() bool {
	return s != StageLobby
}

// Betting reports whether the stage accepts player actions.
func (s Stage) Betting() bool {
	switch s {
	case StagePreFlop, StageFlop, StageTurn, StageRiver:
		return true
	}
	return false
}
