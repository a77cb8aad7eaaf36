package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/ai"
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/events"
	"github.com/zhanguoqi/engine/internal/game/processor"
	"github.com/zhanguoqi/engine/internal/game/rules"
	"github.com/zhanguoqi/engine/internal/game/states"
)

// GameInitializer handles the setup of a new Game
type GameInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewGameInitializer creates a new game initializer
func NewGameInitializer(cfg GameConfig) *GameInitializer {
	return &GameInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "Game").Logger(),
	}
}

// New builds a game from cfg and starts it
func New(ctx context.Context, cfg GameConfig) (*Game, error) {
	return NewGameInitializer(cfg).Initialize(ctx)
}

// Initialize creates the board, the AI players and the state machine, then
// moves the game to PhaseRunning.
func (gi *GameInitializer) Initialize(ctx context.Context) (*Game, error) {
	select {
	case <-ctx.Done():
		gi.logger.Error().Err(ctx.Err()).Msg("Game creation cancelled before setup")
		return nil, ctx.Err()
	default:
	}

	first, err := gi.setupDefaults()
	if err != nil {
		return nil, err
	}

	board, err := core.NewInitialBoard(gi.config.Layout)
	if err != nil {
		return nil, fmt.Errorf("board setup failed: %w", err)
	}

	g := gi.createGame(board, first)

	if err := gi.startStateMachine(g); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	mode := "two player"
	if len(g.players) > 0 {
		names := make([]string, 0, len(g.players))
		for _, side := range core.Owners {
			if p, ok := g.players[side]; ok {
				names = append(names, p.Difficulty().String())
			}
		}
		mode = strings.Join(names, "/")
	}
	g.record(fmt.Sprintf("Game started (%s mode). %s moves first.", mode, strings.ToUpper(first.String())))

	g.eventBus.Publish(events.NewGameStartedEvent(
		g.id,
		board.Size(),
		first,
		board.Count(core.Red),
		board.Count(core.Black),
	))
	g.eventBus.Publish(events.NewTurnStartedEvent(g.id, g.turnCount, g.current, 0))

	gi.logger.Info().
		Str("game_id", g.id).
		Int("board_size", board.Size()).
		Str("first_player", first.String()).
		Str("mode", mode).
		Msg("Game created successfully")

	return g, nil
}

// setupDefaults fills in missing configuration and validates the rest
func (gi *GameInitializer) setupDefaults() (core.Owner, error) {
	if gi.config.Layout == nil {
		return 0, fmt.Errorf("%w: no layout configured", core.ErrInvalidLayout)
	}
	if gi.config.Rng == nil {
		gi.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		gi.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if gi.config.GameID == "" {
		gi.config.GameID = uuid.NewString()
	}
	if gi.config.Rules == nil {
		rc := processor.DefaultConfig()
		gi.config.Rules = &rc
	}
	if gi.config.EventBus == nil {
		gi.config.EventBus = events.NewEventBus(gi.config.Logger)
	}
	if gi.config.MaxTurns < 0 {
		return 0, fmt.Errorf("max turns must not be negative, got %d", gi.config.MaxTurns)
	}

	first := core.Black
	if gi.config.FirstPlayer != "" {
		side, err := core.ParseOwner(gi.config.FirstPlayer)
		if err != nil {
			return 0, fmt.Errorf("first player: %w", err)
		}
		first = side
	}
	return first, nil
}

func (gi *GameInitializer) createGame(board *core.Board, first core.Owner) *Game {
	cfg := gi.config
	logger := gi.logger.With().Str("game_id", cfg.GameID).Logger()
	proc := processor.NewActionProcessor(cfg.Logger, *cfg.Rules)

	players := make(map[core.Owner]*ai.AIPlayer, len(cfg.AI))
	for _, side := range core.Owners {
		difficulty, ok := cfg.AI[side]
		if !ok {
			continue
		}
		players[side] = ai.New(ai.Config{
			Owner:              side,
			Difficulty:         difficulty,
			Rng:                cfg.Rng,
			Logger:             cfg.Logger,
			Processor:          proc,
			SiegeTurnThreshold: cfg.SiegeTurnThreshold,
			NormalBestChance:   cfg.NormalBestChance,
		})
	}

	gameContext := states.NewGameContext(cfg.GameID, cfg.Logger)
	for _, side := range core.Owners {
		who := "human"
		if p, ok := players[side]; ok {
			who = "ai:" + p.Difficulty().String()
		}
		gameContext.SetController(side, who)
	}

	return &Game{
		id:           cfg.GameID,
		cfg:          cfg,
		logger:       logger,
		board:        board,
		current:      first,
		turnCount:    1,
		players:      players,
		proc:         proc,
		winCondition: rules.NewWinConditionChecker(cfg.Logger),
		eventBus:     cfg.EventBus,
		stateMachine: states.NewStateMachine(gameContext, cfg.EventBus),
	}
}

func (gi *GameInitializer) startStateMachine(g *Game) error {
	ctx := g.stateMachine.GetContext()
	ctx.TurnCount = g.turnCount
	if err := g.stateMachine.TransitionTo(states.PhaseRunning, "Board set up"); err != nil {
		gi.logger.Error().Err(err).Msg("Failed to transition to Running state")
		return err
	}
	return nil
}
