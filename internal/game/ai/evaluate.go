package ai

import (
	"math"

	"github.com/zhanguoqi/engine/internal/common"
	"github.com/zhanguoqi/engine/internal/game/core"
)

// Priorities order candidates before scores do.
const (
	PriorityWin           = 999
	PriorityConvertLeader = 200
	PriorityFireLeader    = 150
	PriorityConvert       = 110
	PriorityFire          = 100
	PriorityCaptureLeader = 95
	PriorityGoodTrade     = 90
	PriorityVolley        = 90
	PriorityDefendGeneral = 85
	PriorityCapture       = 80
	PriorityMove          = 50
	PriorityExposed       = 10

	// UrgentPriority makes Normal play the top candidate without rolling
	UrgentPriority = 100

	ScoreWin = 99999
)

// Scoring weights for ordinary moves.
const (
	advanceWeight      = 15
	meleeAdvanceWeight = 10
	siegeAdvanceBonus  = 50
	siegeRetreatCost   = 100
	rangedThreatCost   = 300
	rangedFrontCost    = 100
	rangedFrontRows    = 3
	commanderExposure  = 500
	defendGeneralBonus = 200
	defendRadius       = 2
	centerBonus        = 15
	riverEntryBonus    = 30
	crowdLimit         = 3
	crowdCost          = 20
	valuableThreshold  = 200
	jitterRange        = 3.0
)

// evaluateMove scores moving piece to `to` on b. Capturing a General or HQ
// short-circuits to the win sentinel.
func (ai *AIPlayer) evaluateMove(b *core.Board, piece core.Piece, to core.Position, an Analysis) (int, int) {
	score := 0.0
	priority := PriorityMove
	layout := b.Layout()

	if target, ok := b.Get(to); ok && target.Owner != piece.Owner {
		if target.Kind.IsLeader() {
			return ScoreWin, PriorityWin
		}
		value := target.Kind.Value()
		score += float64(value * 2)
		priority = PriorityCapture

		if mine := piece.Kind.Value(); mine < value {
			score += float64(value - mine)
			priority = PriorityGoodTrade
		}
		if target.Kind.IsCommander() {
			score += 500
			priority = PriorityCaptureLeader
		}
		if target.Kind.IsRanged() {
			score += 200
		}
	}

	advance := (to.Row - piece.Pos.Row) * ai.owner.Forward()
	if advance > 0 {
		score += float64(advance * advanceWeight)
		switch piece.Kind {
		case core.Infantry, core.Cavalry, core.Chariot:
			score += float64(advance * meleeAdvanceWeight)
		}
	}

	threatened := an.threatened(to)

	switch {
	case piece.Kind == core.Siege:
		if advance > 0 && an.HasClearPath {
			score += siegeAdvanceBonus
		} else if advance <= 0 {
			score -= siegeRetreatCost
		}
	case piece.Kind.IsRanged():
		if threatened {
			score -= rangedThreatCost
		}
		if common.Abs(to.Row-layout.FrontLine(ai.owner)) < rangedFrontRows {
			score -= rangedFrontCost
		}
	case piece.Kind.IsCommander():
		if threatened {
			score -= commanderExposure
			priority = PriorityExposed
		}
	}

	if an.GeneralThreatened && ai.difficulty == Expert {
		if to.DistanceTo(an.General.Pos) <= defendRadius {
			score += defendGeneralBonus
			priority = PriorityDefendGeneral
		}
	}

	score += float64(max(0, centerBonus-common.Abs(to.Col-layout.CenterCol())))

	if layout.IsRiver(to.Row) && layout.IsOwnSide(piece.Pos.Row, piece.Owner) {
		score += riverEntryBonus
	}

	friends := 0
	for _, n := range to.ValidNeighbors(b.Size()) {
		if p, ok := b.Get(n); ok && p.Owner == ai.owner {
			friends++
		}
	}
	if friends > crowdLimit {
		score -= crowdCost
	}

	if value := piece.Kind.Value(); value > valuableThreshold && threatened {
		score -= float64(value) * 0.5
	}

	score += ai.rng.Float64() * jitterRange
	return int(math.Floor(score)), priority
}
