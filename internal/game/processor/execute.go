package processor

import (
	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/formation"
)

// The functions below run actions without formation tags or logging, for
// callers that only need the bare rules.
var plain = NewActionProcessor(zerolog.Nop(), Config{BonusTurns: DefaultBonusTurns})

// ExecuteMove moves or captures with the piece at from
func ExecuteMove(b *core.Board, owner core.Owner, from, to core.Position) Outcome {
	return plain.ExecuteMove(b, formation.Tags{}, owner, from, to)
}

// ExecuteRangedFire fires the ranged piece at from at its current target
func ExecuteRangedFire(b *core.Board, owner core.Owner, from core.Position) Outcome {
	return plain.ExecuteRangedFire(b, formation.Tags{}, owner, from)
}

// ExecuteVolley fires the piece at from on one of its volley targets
func ExecuteVolley(b *core.Board, owner core.Owner, from, target core.Position) Outcome {
	return plain.ExecuteVolley(b, formation.Tags{}, owner, from, target)
}

// ExecuteConvert turns the enemy at target to owner's side using the priest at from
func ExecuteConvert(b *core.Board, owner core.Owner, from, target core.Position) Outcome {
	return plain.ExecuteConvert(b, formation.Tags{}, owner, from, target)
}

// ExecuteDivisionMove moves owner's pieces in zone, optionally limited to band, one row in dir
func ExecuteDivisionMove(b *core.Board, owner core.Owner, zone core.Zone, dir Direction, band core.Band) Outcome {
	return plain.ExecuteDivisionMove(b, formation.Tags{}, owner, zone, dir, band)
}

// ResetReloadFlags clears the reloading flag on every piece owner has
func ResetReloadFlags(b *core.Board, owner core.Owner) *core.Board {
	return b.ResetReloading(owner)
}
