package state

// GameState represents the current state of a scene
type GameState int

const (
	StateMenu GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
	StateReplay
	StateReplayEnded
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateReplay:
		return "Replay"
	case StateReplayEnded:
		return "ReplayEnded"
	default:
		return "Unknown"
	}
}
