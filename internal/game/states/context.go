package states

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	GameID string
	Logger zerolog.Logger

	// Controllers names who plays each side, e.g. "human" or "ai:expert".
	// Both must be set before the game can run.
	Controllers [2]string

	StartTime time.Time
	EndTime   time.Time
	TurnCount int

	Winner    core.Owner
	HasWinner bool

	// Error holds any error that caused transition to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
	}
}

// SetController records who plays a side
func (gc *GameContext) SetController(side core.Owner, who string) {
	gc.Controllers[side] = who
}

// IsReady returns true once both sides have a controller
func (gc *GameContext) IsReady() bool {
	return gc.Controllers[core.Red] != "" && gc.Controllers[core.Black] != ""
}

// SetWinner records the winning side
func (gc *GameContext) SetWinner(side core.Owner) {
	gc.Winner = side
	gc.HasWinner = true
}

// GetElapsedTime returns the time elapsed since game start, up to its end if it has ended
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}

func (gc *GameContext) winnerName() string {
	if !gc.HasWinner {
		return "none"
	}
	return gc.Winner.String()
}
