package rules

import "github.com/zhanguoqi/engine/internal/game/core"

// Fire ranges, in cells straight ahead of the shooter.
const (
	CrossbowMinRange = 2
	CrossbowMaxRange = 3
	ArcherMinRange   = 2
	ArcherMaxRange   = 4
	VolleyMinRange   = 4
	VolleyMaxRange   = 6
)

// FireRange returns the direct-fire distances of a kind
func FireRange(kind core.Kind) (lo, hi int, ok bool) {
	switch kind {
	case core.Crossbowman:
		return CrossbowMinRange, CrossbowMaxRange, true
	case core.Archer:
		return ArcherMinRange, ArcherMaxRange, true
	}
	return 0, 0, false
}

// CanFireRanged returns the single cell a crossbowman or archer would hit.
// An enemy in the adjacent forward cell blocks all fire. Otherwise the lane
// is scanned from distance 2 and the first occupied cell decides: an enemy
// that is not a siege engine is the target, anything else blocks.
func CanFireRanged(b *core.Board, p core.Piece) (core.Position, bool) {
	lo, hi, ok := FireRange(p.Kind)
	if !ok {
		return core.Position{}, false
	}
	fwd := core.Position{Row: p.Owner.Forward()}
	if front, ok := b.Get(p.Pos.Add(fwd)); ok && front.Owner != p.Owner {
		return core.Position{}, false
	}
	for i := lo; i <= hi; i++ {
		cell := p.Pos.Add(fwd.Scale(i))
		if !b.InBounds(cell) {
			break
		}
		target, occupied := b.Get(cell)
		if !occupied {
			continue
		}
		if target.Owner != p.Owner && target.Kind != core.Siege {
			return cell, true
		}
		break
	}
	return core.Position{}, false
}

// VolleyTargets lists enemy non-siege pieces in the three-wide band four to
// six cells ahead of an archer.
func VolleyTargets(b *core.Board, p core.Piece) []core.Position {
	if p.Kind != core.Archer {
		return nil
	}
	fwd := p.Owner.Forward()
	var out []core.Position
	for dist := VolleyMinRange; dist <= VolleyMaxRange; dist++ {
		for dc := -1; dc <= 1; dc++ {
			cell := core.Position{Row: p.Pos.Row + fwd*dist, Col: p.Pos.Col + dc}
			if target, ok := b.Get(cell); ok && target.Owner != p.Owner && target.Kind != core.Siege {
				out = append(out, cell)
			}
		}
	}
	return out
}

// IsConvertible reports whether a priest may flip the allegiance of kind
func IsConvertible(kind core.Kind) bool {
	return kind == core.Infantry || kind == core.Advisor
}

// ConvertTargets lists adjacent enemy infantry and advisors of a priest
func ConvertTargets(b *core.Board, p core.Piece) []core.Position {
	if p.Kind != core.Priest {
		return nil
	}
	var out []core.Position
	for _, dr := range []int{-1, 0, 1} {
		for _, dc := range []int{-1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			cell := core.Position{Row: p.Pos.Row + dr, Col: p.Pos.Col + dc}
			if target, ok := b.Get(cell); ok && target.Owner != p.Owner && IsConvertible(target.Kind) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// RangedThreats lists the cells the given side's ready ranged units could
// hit right now, by direct fire or volley, without duplicates.
func RangedThreats(b *core.Board, shooter core.Owner) []core.Position {
	var out []core.Position
	seen := make(map[core.Position]struct{})
	add := func(p core.Position) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, p := range b.Pieces(shooter) {
		if !p.Kind.IsRanged() || p.Reloading {
			continue
		}
		if target, ok := CanFireRanged(b, p); ok {
			add(target)
		}
		for _, vt := range VolleyTargets(b, p) {
			add(vt)
		}
	}
	return out
}

// ThreatenedSquares returns the observer's cells that the opposing side's
// ranged units can currently hit; used to warn a human player.
func ThreatenedSquares(b *core.Board, observer core.Owner) []core.Position {
	return RangedThreats(b, observer.Opponent())
}
