package ai

import (
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/rules"
)

// Analysis is the whole-board summary computed once per turn before any
// candidate is scored.
type Analysis struct {
	MyPieces     int
	EnemyPieces  int
	MyRanged     int
	EnemyRanged  int
	TurnEstimate int
	// HasClearPath is true while no enemy stands in the river near the
	// center column.
	HasClearPath      bool
	General           core.Piece
	HasGeneral        bool
	GeneralThreatened bool

	threats map[core.Position]struct{}
}

// clearPathHalfWidth is how many columns either side of center are checked
const clearPathHalfWidth = 2

func (ai *AIPlayer) analyze(b *core.Board) Analysis {
	an := Analysis{HasClearPath: true}
	for _, p := range b.Pieces() {
		mine := p.Owner == ai.owner
		switch {
		case mine && p.Kind.IsRanged():
			an.MyPieces++
			an.MyRanged++
		case mine:
			an.MyPieces++
		case p.Kind.IsRanged():
			an.EnemyPieces++
			an.EnemyRanged++
		default:
			an.EnemyPieces++
		}
	}

	if ai.difficulty.ThreatAware() {
		an.threats = threatMap(b, ai.enemy)
	}
	an.General, an.HasGeneral = b.FindByType(ai.owner, core.General)
	if an.HasGeneral {
		an.GeneralThreatened = an.threatened(an.General.Pos)
	}

	baseline := ai.cfg.BaselinePieces
	if baseline <= 0 {
		baseline = len(b.Layout().Pieces)
	}
	an.TurnEstimate = max(0, (baseline-an.MyPieces-an.EnemyPieces)*2)

	layout := b.Layout()
	center := layout.CenterCol()
	for _, row := range layout.RiverRows {
		for c := center - clearPathHalfWidth; c <= center+clearPathHalfWidth; c++ {
			if p, ok := b.Get(core.Position{Row: row, Col: c}); ok && p.Owner == ai.enemy {
				an.HasClearPath = false
			}
		}
	}
	return an
}

// threatened reports whether an enemy could move onto or shoot sq right
// now. Always false when threats were not computed.
func (an Analysis) threatened(sq core.Position) bool {
	_, ok := an.threats[sq]
	return ok
}

// threatMap collects every cell the enemy could move onto or hit with
// direct fire on the current board.
func threatMap(b *core.Board, enemy core.Owner) map[core.Position]struct{} {
	out := make(map[core.Position]struct{})
	for _, p := range b.Pieces(enemy) {
		for _, d := range rules.LegalDestinations(b, p, enemy) {
			out[d] = struct{}{}
		}
		if p.Kind.IsRanged() && !p.Reloading {
			if t, ok := rules.CanFireRanged(b, p); ok {
				out[t] = struct{}{}
			}
		}
	}
	return out
}

// IsSquareThreatened reports whether enemy pieces of the observer's
// opponent can reach sq by a legal move or direct fire.
func IsSquareThreatened(b *core.Board, observer core.Owner, sq core.Position) bool {
	_, ok := threatMap(b, observer.Opponent())[sq]
	return ok
}
