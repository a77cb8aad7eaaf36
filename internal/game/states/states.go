package states

import (
	"errors"
	"fmt"
	"time"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// hooks is a State assembled from optional callbacks; a nil callback
// succeeds without doing anything.
type hooks struct {
	phase    GamePhase
	enter    func(*GameContext) error
	exit     func(*GameContext) error
	validate func(*GameContext) error
}

func (h *hooks) Phase() GamePhase { return h.phase }

func (h *hooks) Enter(ctx *GameContext) error { return call(h.enter, ctx) }

func (h *hooks) Exit(ctx *GameContext) error { return call(h.exit, ctx) }

func (h *hooks) Validate(ctx *GameContext) error { return call(h.validate, ctx) }

func call(fn func(*GameContext) error, ctx *GameContext) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

var errNoFailure = errors.New("error state requires an error in context")

// defaultStates returns the built-in behaviour of every phase
func defaultStates() []State {
	return []State{
		&hooks{
			phase: PhaseInitializing,
			enter: func(ctx *GameContext) error {
				ctx.Logger.Debug().Msg("Setting up game")
				return nil
			},
			exit: func(ctx *GameContext) error {
				ctx.Logger.Debug().
					Str("red", ctx.Controllers[core.Red]).
					Str("black", ctx.Controllers[core.Black]).
					Msg("Sides assigned")
				return nil
			},
		},
		&hooks{
			phase: PhaseRunning,
			validate: func(ctx *GameContext) error {
				if ctx.IsReady() {
					return nil
				}
				return fmt.Errorf("both sides need a controller, have red=%q black=%q",
					ctx.Controllers[core.Red], ctx.Controllers[core.Black])
			},
			enter: func(ctx *GameContext) error {
				ctx.StartTime = time.Now()
				ctx.Logger.Info().Time("start_time", ctx.StartTime).Msg("Play begins")
				return nil
			},
			exit: func(ctx *GameContext) error {
				ctx.EndTime = time.Now()
				ctx.Logger.Debug().
					Dur("elapsed", ctx.GetElapsedTime()).
					Int("turns", ctx.TurnCount).
					Msg("Play stopped")
				return nil
			},
		},
		&hooks{
			phase: PhaseEnded,
			enter: func(ctx *GameContext) error {
				ctx.Logger.Info().
					Str("winner", ctx.winnerName()).
					Int("turns", ctx.TurnCount).
					Dur("game_duration", ctx.GetElapsedTime()).
					Msg("Game over")
				return nil
			},
		},
		&hooks{
			phase: PhaseError,
			validate: func(ctx *GameContext) error {
				if ctx.Error == nil {
					return errNoFailure
				}
				return nil
			},
			enter: func(ctx *GameContext) error {
				ctx.Logger.Error().Err(ctx.Error).Msg("Game failed")
				return nil
			},
			exit: func(ctx *GameContext) error {
				ctx.Logger.Info().Err(ctx.Error).Msg("Clearing failure")
				ctx.Error = nil
				return nil
			},
		},
		// Reset clears the previous result but keeps the controllers.
		&hooks{
			phase: PhaseReset,
			enter: func(ctx *GameContext) error {
				ctx.Logger.Info().Int("turns", ctx.TurnCount).Msg("Clearing previous game")
				*ctx = GameContext{
					GameID:      ctx.GameID,
					Logger:      ctx.Logger,
					Controllers: ctx.Controllers,
				}
				return nil
			},
		},
	}
}
