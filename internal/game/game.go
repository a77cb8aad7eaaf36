// Package game is the session layer around the engine: it owns the current
// board, whose turn it is, bonus turns owed after a formation change, the
// formation tags and an in-memory log, and drives AI-controlled sides.
package game

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/ai"
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/events"
	"github.com/zhanguoqi/engine/internal/game/formation"
	"github.com/zhanguoqi/engine/internal/game/processor"
	"github.com/zhanguoqi/engine/internal/game/rules"
	"github.com/zhanguoqi/engine/internal/game/states"
)

// GameConfig describes a session. Zero values pick the defaults noted on
// each field.
type GameConfig struct {
	// GameID defaults to a random UUID.
	GameID string
	// Layout defaults to an error: callers load one through the config package.
	Layout *core.Layout
	// FirstPlayer is "red" or "black"; empty means Black.
	FirstPlayer string
	// AI maps AI-controlled sides to their difficulty. Sides not listed are
	// played through Apply.
	AI map[core.Owner]ai.Difficulty
	// Rules configures the action processor; nil means processor.DefaultConfig().
	Rules *processor.Config
	// DisableHQDamage turns off the start-of-turn adjacency damage.
	DisableHQDamage bool
	// MaxTurns ends the game without a winner once the turn counter passes
	// it. Zero means no limit.
	MaxTurns int

	SiegeTurnThreshold int
	NormalBestChance   float64

	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus
}

// Game is a single match. It is not safe for concurrent use.
type Game struct {
	id     string
	cfg    GameConfig
	logger zerolog.Logger

	board      *core.Board
	tags       formation.Tags
	current    core.Owner
	bonusTurns int
	turnCount  int
	log        []string
	winner     core.Owner
	over       bool

	players      map[core.Owner]*ai.AIPlayer
	proc         *processor.ActionProcessor
	winCondition *rules.WinConditionChecker
	eventBus     *events.EventBus
	stateMachine *states.StateMachine
}

func (g *Game) ID() string                { return g.id }
func (g *Game) Board() *core.Board        { return g.board }
func (g *Game) Tags() formation.Tags      { return g.tags }
func (g *Game) CurrentPlayer() core.Owner { return g.current }
func (g *Game) BonusTurns() int           { return g.bonusTurns }
func (g *Game) TurnCount() int            { return g.turnCount }
func (g *Game) EventBus() *events.EventBus {
	return g.eventBus
}

// Log returns a copy of the game log
func (g *Game) Log() []string { return slices.Clone(g.log) }

// Phase is the state machine's current phase
func (g *Game) Phase() states.GamePhase { return g.stateMachine.CurrentPhase() }

// IsOver is true once a side has won or the turn limit was reached
func (g *Game) IsOver() bool { return g.over }

// Winner returns the winning side; ok is false while the game runs or
// when it ended at the turn limit.
func (g *Game) Winner() (core.Owner, bool) {
	if !g.over {
		return 0, false
	}
	return g.winner, g.stateMachine.GetContext().HasWinner
}

// IsAI reports whether side is played by the computer
func (g *Game) IsAI(side core.Owner) bool {
	_, ok := g.players[side]
	return ok
}

// Selection is everything the active player can do with one piece
type Selection struct {
	Piece core.Piece
	Moves []core.Position
	// FireTarget is set when a crossbowman or archer has a direct-fire target.
	FireTarget    *core.Position
	VolleyTargets []core.Position
	// ConvertTargets lists the adjacent pieces a priest can convert.
	ConvertTargets []core.Position
}

// Select returns the options of the active player's piece at pos
func (g *Game) Select(pos core.Position) (Selection, error) {
	if err := g.checkRunning(); err != nil {
		return Selection{}, err
	}
	piece, ok := g.board.Get(pos)
	if !ok {
		return Selection{}, fmt.Errorf("select %s: %w", pos.Human(), core.ErrNoPiece)
	}
	if !rules.CanSelect(piece, g.current) {
		return Selection{}, fmt.Errorf("select %s: %w", pos.Human(), core.ErrNotYourTurn)
	}

	sel := Selection{
		Piece:          piece,
		Moves:          rules.LegalDestinations(g.board, piece, g.current),
		VolleyTargets:  rules.VolleyTargets(g.board, piece),
		ConvertTargets: rules.ConvertTargets(g.board, piece),
	}
	if target, ok := rules.CanFireRanged(g.board, piece); ok && !piece.Reloading {
		sel.FireTarget = &target
	}
	return sel, nil
}

// Apply plays an action for the active side. A rejected action is reported
// through the outcome and changes nothing; the error is reserved for misuse
// such as acting after the game ended.
func (g *Game) Apply(action processor.Action) (processor.Outcome, error) {
	if err := g.checkRunning(); err != nil {
		return processor.Outcome{}, err
	}
	out := g.proc.Apply(g.board, g.tags, g.current, action)
	if !out.Success {
		g.eventBus.Publish(events.NewActionRejectedEvent(g.id, g.current, action.GetType().String(), out.Message, g.turnCount))
		return out, nil
	}
	g.commit(action, out, out.Message)
	return out, nil
}

// PlayAITurn lets the AI controlling the active side take its turn. When it
// has nothing to play it passes and the turn still ends.
func (g *Game) PlayAITurn() (processor.Outcome, error) {
	if err := g.checkRunning(); err != nil {
		return processor.Outcome{}, err
	}
	player, ok := g.players[g.current]
	if !ok {
		return processor.Outcome{}, fmt.Errorf("%s is not AI controlled", g.current)
	}

	out := player.MakeMoveWith(g.board, g.tags)
	if !out.Success {
		g.record("AI passes.")
		g.eventBus.Publish(events.NewAIPassedEvent(g.id, g.current, g.turnCount))
		g.EndTurn()
		return out, nil
	}
	g.commit(out.Action, out, "AI: "+out.Message)
	return out, nil
}

// commit stores a successful outcome, then either ends the game or hands
// the turn on. A formation change passes control straight to the opponent
// with the bonus turns it earned.
func (g *Game) commit(action processor.Action, out processor.Outcome, message string) {
	actor := g.current
	kind := action.GetType()
	g.board = out.Board
	g.tags = out.Tags
	g.record(message)

	g.eventBus.Publish(events.NewActionProcessedEvent(g.id, actor, kind.String(), out.Message, g.turnCount))
	for _, p := range out.Captured {
		g.eventBus.Publish(events.NewPieceCapturedEvent(g.id, actor, p, g.turnCount))
	}
	for _, p := range out.Converted {
		g.eventBus.Publish(events.NewPieceConvertedEvent(g.id, actor, p, g.turnCount))
	}

	if g.checkWinner("action") {
		return
	}

	if change, ok := action.(*processor.FormationChangeAction); ok {
		g.eventBus.Publish(events.NewFormationChangedEvent(g.id, actor, change.Zone, change.Formation.String(), out.BonusTurns))
		g.eventBus.Publish(events.NewTurnEndedEvent(g.id, g.turnCount, actor, false))
		g.bonusTurns = out.BonusTurns
		g.current = actor.Opponent()
		g.startTurn()
		return
	}
	g.EndTurn()
}

// EndTurn finishes the active side's turn. Owed bonus turns are spent first
// and keep the same side moving. Otherwise the side's reload flags are
// cleared, play passes to the opponent and the turn counter advances.
func (g *Game) EndTurn() {
	if g.over {
		return
	}
	if g.bonusTurns > 0 {
		g.bonusTurns--
		g.eventBus.Publish(events.NewTurnEndedEvent(g.id, g.turnCount, g.current, true))
		g.logger.Debug().
			Str("player", g.current.String()).
			Int("bonus_turns_left", g.bonusTurns).
			Msg("Bonus turn")
		return
	}

	g.eventBus.Publish(events.NewTurnEndedEvent(g.id, g.turnCount, g.current, false))
	g.board = g.proc.ResetReloadFlags(g.board, g.current)
	g.current = g.current.Opponent()
	g.turnCount++
	g.stateMachine.GetContext().TurnCount = g.turnCount

	if g.cfg.MaxTurns > 0 && g.turnCount > g.cfg.MaxTurns {
		g.record(fmt.Sprintf("Turn limit of %d reached. The game is a draw.", g.cfg.MaxTurns))
		g.finish(0, false, "turn limit reached")
		return
	}
	g.startTurn()
}

// startTurn applies HQ adjacency damage to the side about to move
func (g *Game) startTurn() {
	if !g.cfg.DisableHQDamage {
		board, dealt := g.board.ApplyHQAdjacencyDamage(g.current)
		if dealt > 0 {
			g.board = board
			health := 0
			if general, ok := board.FindByType(g.current, core.General); ok {
				health = general.Health
			}
			g.record(fmt.Sprintf("%s headquarters under siege: %d damage.", strings.ToUpper(g.current.String()), dealt))
			g.eventBus.Publish(events.NewHQDamagedEvent(g.id, g.current, dealt, health))
			if g.checkWinner("hq damage") {
				return
			}
		}
	}
	g.eventBus.Publish(events.NewTurnStartedEvent(g.id, g.turnCount, g.current, g.bonusTurns))
}

func (g *Game) checkWinner(cause string) bool {
	over, winner := g.winCondition.Check(g.board)
	if !over {
		return false
	}
	g.record(fmt.Sprintf("%s wins!", strings.ToUpper(winner.String())))
	g.finish(winner, true, cause)
	return true
}

func (g *Game) finish(winner core.Owner, hasWinner bool, reason string) {
	g.over = true
	g.winner = winner
	ctx := g.stateMachine.GetContext()
	if hasWinner {
		ctx.SetWinner(winner)
	}
	if err := g.stateMachine.TransitionTo(states.PhaseEnded, reason); err != nil {
		g.logger.Error().Err(err).Msg("Failed to end game")
	}
	g.eventBus.Publish(events.NewGameEndedEvent(g.id, winner, hasWinner, ctx.GetElapsedTime(), g.turnCount))
}

func (g *Game) checkRunning() error {
	if g.over {
		return core.ErrGameOver
	}
	if phase := g.stateMachine.CurrentPhase(); !phase.CanReceiveActions() {
		return fmt.Errorf("game is in %s phase and cannot receive actions", phase)
	}
	return nil
}

func (g *Game) record(msg string) {
	g.log = append(g.log, msg)
	g.logger.Debug().Int("turn", g.turnCount).Msg(msg)
}

// Elapsed is the wall-clock time since the game started running
func (g *Game) Elapsed() time.Duration {
	return g.stateMachine.GetContext().GetElapsedTime()
}
