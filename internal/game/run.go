package game

import (
	"context"
	"errors"
)

// ErrAwaitingHuman is returned by Run when a human-controlled side is to move
var ErrAwaitingHuman = errors.New("waiting for a human move")

// Run plays AI turns until the game ends, ctx is done or a human side is
// to move.
func (g *Game) Run(ctx context.Context) error {
	for !g.over {
		select {
		case <-ctx.Done():
			g.logger.Warn().
				Err(ctx.Err()).
				Int("turn", g.turnCount).
				Msg("Game loop cancelled")
			return ctx.Err()
		default:
		}

		if !g.IsAI(g.current) {
			return ErrAwaitingHuman
		}
		if _, err := g.PlayAITurn(); err != nil {
			return err
		}
	}
	return nil
}
