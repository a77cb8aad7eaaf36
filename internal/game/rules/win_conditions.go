package rules

import (
	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// CheckWinner returns the winning side when either side's General or HQ is
// gone or has no health left. Red's leaders are checked first.
func CheckWinner(b *core.Board) (core.Owner, bool) {
	for _, side := range core.Owners {
		if !leadersStanding(b, side) {
			return side.Opponent(), true
		}
	}
	return 0, false
}

func leadersStanding(b *core.Board, side core.Owner) bool {
	for _, kind := range []core.Kind{core.General, core.HQ} {
		p, ok := b.FindByType(side, kind)
		if !ok || p.Health <= 0 {
			return false
		}
	}
	return true
}

// WinConditionChecker wraps CheckWinner with logging for the session layer
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// Check returns (gameOver, winner) for the board
func (wc *WinConditionChecker) Check(b *core.Board) (bool, core.Owner) {
	winner, over := CheckWinner(b)
	if over {
		wc.logger.Info().Str("winner", winner.String()).Msg("Winner determined")
	} else {
		wc.logger.Debug().
			Int("red_pieces", b.Count(core.Red)).
			Int("black_pieces", b.Count(core.Black)).
			Msg("Game over check complete")
	}
	return over, winner
}
