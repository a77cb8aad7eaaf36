package processor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/formation"
	"github.com/zhanguoqi/engine/internal/game/rules"
)

// DefaultBonusTurns is what a formation change hands the opponent
const DefaultBonusTurns = 2

// Config tunes the processor
type Config struct {
	// EnforceFormations makes captures consult formation.CombatModifier.
	EnforceFormations bool
	BonusTurns        int
}

// DefaultConfig enforces formations and grants two bonus turns
func DefaultConfig() Config {
	return Config{EnforceFormations: true, BonusTurns: DefaultBonusTurns}
}

// ActionProcessor turns actions into new board snapshots. It never mutates
// the board it is handed.
type ActionProcessor struct {
	logger zerolog.Logger
	cfg    Config
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger, cfg Config) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
		cfg:    cfg,
	}
}

// Config returns the processor settings
func (ap *ActionProcessor) Config() Config { return ap.cfg }

// Apply validates an action against the active side and executes it
func (ap *ActionProcessor) Apply(b *core.Board, tags formation.Tags, active core.Owner, action Action) Outcome {
	out := ap.apply(b, tags, active, action)
	out.Action = action
	return out
}

func (ap *ActionProcessor) apply(b *core.Board, tags formation.Tags, active core.Owner, action Action) Outcome {
	if err := action.Validate(b, active); err != nil {
		return ap.reject(action.GetType(), action.GetOwner(), failure(b, tags, err, describe(err)))
	}

	switch act := action.(type) {
	case *MoveAction:
		return ap.ExecuteMove(b, tags, act.Owner, act.From, act.To)
	case *RangedFireAction:
		return ap.ExecuteRangedFire(b, tags, act.Owner, act.From)
	case *VolleyAction:
		return ap.ExecuteVolley(b, tags, act.Owner, act.From, act.Target)
	case *ConvertAction:
		return ap.ExecuteConvert(b, tags, act.Owner, act.From, act.Target)
	case *DivisionMoveAction:
		return ap.ExecuteDivisionMove(b, tags, act.Owner, act.Zone, act.Direction, act.Band)
	case *FormationChangeAction:
		return ap.ChangeFormation(b, tags, act.Owner, act.Zone, act.Formation)
	default:
		ap.logger.Warn().Str("action_type", action.GetType().String()).Msg("Unhandled action type")
		return failure(b, tags, fmt.Errorf("unhandled action %s", action.GetType()), "Unknown action")
	}
}

// ExecuteMove moves the owner's piece at from to to, capturing an enemy
// standing there.
func (ap *ActionProcessor) ExecuteMove(b *core.Board, tags formation.Tags, owner core.Owner, from, to core.Position) Outcome {
	piece, ok := b.Get(from)
	if !ok {
		return ap.reject(ActionMove, owner, failure(b, tags, core.ErrNoPiece, "No piece at source"))
	}
	if piece.Owner != owner {
		return ap.reject(ActionMove, owner, failure(b, tags, core.ErrNotYourTurn, "That piece belongs to "+piece.Owner.String()))
	}
	target, occupied := b.Get(to)
	enemy := occupied && target.Owner != owner
	if piece.Kind == core.Priest && enemy {
		return ap.reject(ActionMove, owner, failure(b, tags, core.ErrPriestCannotCapture, "Priests cannot capture - use Convert ability"))
	}
	if !rules.IsLegalMove(b, from, to, owner) {
		return ap.reject(ActionMove, owner, failure(b, tags, core.ErrIllegalDestination,
			fmt.Sprintf("%s cannot move to %s", piece.Symbol(), to.Human())))
	}

	verdict := formation.CombatResult{CanAttack: true}
	if enemy {
		verdict = ap.checkFormation(b, tags, piece, target, false)
		if !verdict.CanAttack {
			return ap.reject(ActionMove, owner, failure(b, tags, core.ErrFormationBlocked, verdict.Reason))
		}
	}

	ed := b.Edit()
	captured, hit, err := ed.Move(from, to)
	if err != nil {
		return ap.reject(ActionMove, owner, failure(b, tags, err, describe(err)))
	}

	out := Outcome{Success: true, Board: ed.Board(), Tags: tags, Moved: 1, Effect: verdict.Effect}
	if hit {
		out.Captured = []core.Piece{captured}
		out.Message = fmt.Sprintf("%s captures %s (%s)!", piece.Symbol(), captured.Symbol(), captured.Kind.Name())
		out.Tags = breakFormation(b, tags, captured, verdict.Effect)
	} else {
		out.Message = fmt.Sprintf("Moved %s to %s", piece.Symbol(), to.Human())
	}
	return ap.applied(ActionMove, owner, out)
}

// ExecuteRangedFire kills the single target in front of a crossbowman or
// archer. There is no miss chance.
func (ap *ActionProcessor) ExecuteRangedFire(b *core.Board, tags formation.Tags, owner core.Owner, from core.Position) Outcome {
	shooter, ok := b.Get(from)
	if !ok {
		return ap.reject(ActionRangedFire, owner, failure(b, tags, core.ErrNoPiece, "No piece at source"))
	}
	if shooter.Owner != owner {
		return ap.reject(ActionRangedFire, owner, failure(b, tags, core.ErrNotYourTurn, "That piece belongs to "+shooter.Owner.String()))
	}
	if shooter.Reloading {
		return ap.reject(ActionRangedFire, owner, failure(b, tags, core.ErrNoTarget, "Reloading"))
	}
	at, ok := rules.CanFireRanged(b, shooter)
	if !ok {
		return ap.reject(ActionRangedFire, owner, failure(b, tags, core.ErrNoTarget, "No valid target"))
	}

	label := "Crossbow fires"
	if shooter.Kind == core.Archer {
		label = "Archer fires"
	}
	return ap.kill(ActionRangedFire, b, tags, shooter, at, label+": HIT! Killed")
}

// ExecuteVolley kills one chosen enemy in the archer's volley band
func (ap *ActionProcessor) ExecuteVolley(b *core.Board, tags formation.Tags, owner core.Owner, from, target core.Position) Outcome {
	archer, ok := b.Get(from)
	if !ok {
		return ap.reject(ActionVolley, owner, failure(b, tags, core.ErrNoPiece, "No piece at source"))
	}
	if archer.Owner != owner {
		return ap.reject(ActionVolley, owner, failure(b, tags, core.ErrNotYourTurn, "That piece belongs to "+archer.Owner.String()))
	}
	if archer.Reloading || !slices.Contains(rules.VolleyTargets(b, archer), target) {
		return ap.reject(ActionVolley, owner, failure(b, tags, core.ErrInvalidTarget, "Invalid volley target"))
	}
	return ap.kill(ActionVolley, b, tags, archer, target, "Volley! Killed")
}

// kill removes the ranged target at cell after the formation check
func (ap *ActionProcessor) kill(kind ActionType, b *core.Board, tags formation.Tags, shooter core.Piece, cell core.Position, prefix string) Outcome {
	victim, _ := b.Get(cell)
	verdict := ap.checkFormation(b, tags, shooter, victim, true)
	if !verdict.CanAttack {
		return ap.reject(kind, shooter.Owner, failure(b, tags, core.ErrFormationBlocked, verdict.Reason))
	}

	ed := b.Edit()
	ed.Remove(cell)
	out := Outcome{
		Success:  true,
		Message:  fmt.Sprintf("%s %s (%s)", prefix, victim.Symbol(), victim.Kind.Name()),
		Board:    ed.Board(),
		Tags:     breakFormation(b, tags, victim, verdict.Effect),
		Captured: []core.Piece{victim},
		Effect:   verdict.Effect,
	}
	return ap.applied(kind, shooter.Owner, out)
}

// ExecuteConvert flips an adjacent enemy infantryman or advisor to the
// priest's side. The piece stays where it is.
func (ap *ActionProcessor) ExecuteConvert(b *core.Board, tags formation.Tags, owner core.Owner, from, target core.Position) Outcome {
	priest, ok := b.Get(from)
	if !ok {
		return ap.reject(ActionConvert, owner, failure(b, tags, core.ErrNoPiece, "No piece at source"))
	}
	if priest.Owner != owner {
		return ap.reject(ActionConvert, owner, failure(b, tags, core.ErrNotYourTurn, "That piece belongs to "+priest.Owner.String()))
	}
	if !slices.Contains(rules.ConvertTargets(b, priest), target) {
		return ap.reject(ActionConvert, owner, failure(b, tags, core.ErrInvalidTarget, "Invalid convert target"))
	}

	before, _ := b.Get(target)
	ed := b.Edit()
	ed.Update(target, func(p *core.Piece) { p.Owner = owner })
	out := Outcome{
		Success:   true,
		Message:   fmt.Sprintf("Priest converts %s (%s)!", before.Symbol(), before.Kind.Name()),
		Board:     ed.Board(),
		Tags:      tags,
		Converted: []core.Piece{before},
	}
	return ap.applied(ActionConvert, owner, out)
}

// ChangeFormation retags one of the owner's zones. The zone must hold at
// least the formation's minimum number of the owner's pieces. The board is
// returned unchanged; the opponent is owed BonusTurns extra turns.
func (ap *ActionProcessor) ChangeFormation(b *core.Board, tags formation.Tags, owner core.Owner, zone core.Zone, kind formation.Kind) Outcome {
	span, ok := b.Layout().ZoneSpan(zone)
	if !ok {
		return ap.reject(ActionChangeFormation, owner, failure(b, tags, core.ErrInvalidZone, "Invalid zone"))
	}
	if !kind.Valid() {
		return ap.reject(ActionChangeFormation, owner, failure(b, tags, core.ErrUnknownFormation, "Unknown formation"))
	}
	have := 0
	for _, p := range b.Pieces(owner) {
		if span.Contains(p.Pos.Col) {
			have++
		}
	}
	info := kind.Info()
	if have < info.MinPieces {
		return ap.reject(ActionChangeFormation, owner, failure(b, tags, core.ErrTooFewPieces,
			fmt.Sprintf("%s needs %d pieces in the %s zone, found %d", info.Name, info.MinPieces, zone, have)))
	}

	out := Outcome{
		Success: true,
		Message: fmt.Sprintf("%s changes %s zone to %s formation! Opponent gets %d bonus turns.",
			owner, zone, info.Name, ap.cfg.BonusTurns),
		Board:      b,
		Tags:       tags.With(owner, zone, kind),
		BonusTurns: ap.cfg.BonusTurns,
	}
	return ap.applied(ActionChangeFormation, owner, out)
}

// ResetReloadFlags is end-of-turn housekeeping for the side that just moved
func (ap *ActionProcessor) ResetReloadFlags(b *core.Board, owner core.Owner) *core.Board {
	return b.ResetReloading(owner)
}

// CanAttack reports whether the piece at from may hit the enemy at target
// under the current formation tags. Cells that do not hold an attacker and
// an enemy always report true.
func (ap *ActionProcessor) CanAttack(b *core.Board, tags formation.Tags, from, target core.Position, ranged bool) bool {
	attacker, ok := b.Get(from)
	if !ok {
		return true
	}
	defender, ok := b.Get(target)
	if !ok || defender.Owner == attacker.Owner {
		return true
	}
	return ap.checkFormation(b, tags, attacker, defender, ranged).CanAttack
}

// checkFormation asks the combat table whether attacker may hit defender.
// Melee attacks count every piece of the attacker's side around the target.
func (ap *ActionProcessor) checkFormation(b *core.Board, tags formation.Tags, attacker, defender core.Piece, ranged bool) formation.CombatResult {
	if !ap.cfg.EnforceFormations {
		return formation.CombatResult{CanAttack: true}
	}
	count := 1
	if !ranged {
		count = attackersAround(b, attacker, defender.Pos)
	}
	layout := b.Layout()
	return formation.CombatModifier(
		tags.At(layout, attacker.Owner, attacker.Pos.Col),
		tags.At(layout, defender.Owner, defender.Pos.Col),
		ranged, count)
}

// attackersAround counts the mover plus its friends adjacent to target
func attackersAround(b *core.Board, mover core.Piece, target core.Position) int {
	count := 1
	for _, n := range target.ValidNeighbors(b.Size()) {
		if n == mover.Pos {
			continue
		}
		if p, ok := b.Get(n); ok && p.Owner == mover.Owner {
			count++
		}
	}
	return count
}

// breakFormation resets the victim's zone to Line after a wedge breaks it
func breakFormation(b *core.Board, tags formation.Tags, victim core.Piece, effect formation.Effect) formation.Tags {
	if effect != formation.FormationBreak {
		return tags
	}
	return tags.With(victim.Owner, b.ZoneOf(victim.Pos.Col), formation.Line)
}

func (ap *ActionProcessor) reject(kind ActionType, owner core.Owner, out Outcome) Outcome {
	ap.logger.Debug().
		Str("action", kind.String()).
		Str("owner", owner.String()).
		Err(out.Err).
		Str("reason", out.Message).
		Msg("Action rejected")
	return out
}

func (ap *ActionProcessor) applied(kind ActionType, owner core.Owner, out Outcome) Outcome {
	ap.logger.Debug().
		Str("action", kind.String()).
		Str("owner", owner.String()).
		Int("captured", len(out.Captured)).
		Int("moved", out.Moved).
		Str("effect", string(out.Effect)).
		Msg(out.Message)
	return out
}

// describe turns a validation error into a player-facing message
func describe(err error) string {
	switch {
	case errors.Is(err, core.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, core.ErrOutOfBounds):
		return "Position is off the board"
	case errors.Is(err, core.ErrInvalidZone):
		return "Invalid zone"
	case errors.Is(err, core.ErrUnknownFormation):
		return "Unknown formation"
	case errors.Is(err, core.ErrNoPiece):
		return "No piece at source"
	}
	return err.Error()
}
