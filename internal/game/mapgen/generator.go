package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// MinSize is the smallest board the standard roster fits on
const MinSize = 15

// MapConfig holds configuration for layout generation
type MapConfig struct {
	Size int
	// ShuffleFlanks deals the flank specialists (chariots, siege engines,
	// priests, archers and crossbowmen) to random flank slots. Both sides
	// receive the same deal.
	ShuffleFlanks bool
}

// DefaultMapConfig returns the standard, unshuffled configuration
func DefaultMapConfig(size int) MapConfig {
	return MapConfig{Size: size}
}

// ValidateSize checks that size can hold the standard roster
func ValidateSize(size int) error {
	if size < MinSize {
		return fmt.Errorf("%w: generated boards need at least %d rows, got %d", core.ErrInvalidLayout, MinSize, size)
	}
	if size%2 == 0 {
		return fmt.Errorf("%w: generated boards need an odd size, got %d", core.ErrInvalidLayout, size)
	}
	return nil
}

// Generator builds mirrored starting layouts with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new layout generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateLayout partitions the board and places both armies. Black's
// roster is built from the top edge and Red's is its mirror image.
func (g *Generator) GenerateLayout() (*core.Layout, error) {
	size := g.config.Size
	if err := ValidateSize(size); err != nil {
		return nil, err
	}

	layout := g.terrain(size)
	black := g.placeArmy(layout)
	pieces := make([]core.Piece, 0, 2*len(black))
	pieces = append(pieces, black...)
	for _, p := range black {
		pieces = append(pieces, core.NewPiece(p.Kind, core.Red, mirrorRow(p.Pos, size)))
	}
	layout.Pieces = pieces

	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("generated layout: %w", err)
	}
	return layout, nil
}

func (g *Generator) terrain(size int) *core.Layout {
	mid := size / 2
	gap := (size - 1) * 7 / 24
	depth := mid - 1

	front := (depth + 2) / 3
	rear := (depth + 1) / 3
	blackBands := [3]core.Span{
		{Start: depth - front, End: depth - 1},
		{Start: rear, End: depth - front - 1},
		{Start: 0, End: rear - 1},
	}
	var redBands [3]core.Span
	for i, s := range blackBands {
		redBands[i] = core.Span{Start: size - 1 - s.End, End: size - 1 - s.Start}
	}

	layout := &core.Layout{
		Size:          size,
		RiverRows:     []int{mid - 1, mid, mid + 1},
		ContestedCity: core.NewPosition(mid, mid),
		Gaps:          []int{gap, size - 1 - gap},
		Divisions: [3]core.Span{
			{Start: 0, End: gap - 1},
			{Start: gap + 1, End: size - 2 - gap},
			{Start: size - gap, End: size - 1},
		},
	}
	layout.Bands[core.Red] = redBands
	layout.Bands[core.Black] = blackBands
	return layout
}

type slot struct {
	kind core.Kind
	row  int
	cols []int
}

// placeArmy lays out Black's six ranks: the rear band holds the HQ and
// the heavy support, the main band the General and the commanders, the
// front band the vanguard and a full line of infantry.
func (g *Generator) placeArmy(layout *core.Layout) []core.Piece {
	size := layout.Size
	mid := size / 2
	flank := (layout.Divisions[core.ZoneLeft].End) / 2
	pair := func(c int) []int { return []int{c, size - 1 - c} }

	rear, _ := layout.BandSpan(core.Black, core.BandRear)
	main, _ := layout.BandSpan(core.Black, core.BandMain)
	front, _ := layout.BandSpan(core.Black, core.BandFront)

	flanks := []slot{
		{core.Chariot, rear.Start, pair(flank)},
		{core.Siege, rear.End, pair(flank)},
		{core.Priest, rear.End, pair(mid - 2)},
		{core.Archer, main.Start, pair(flank)},
		{core.Crossbowman, main.Start, pair(mid - 2)},
		{core.Crossbowman, front.Start, pair(flank)},
	}
	if g.config.ShuffleFlanks && g.rng != nil {
		g.rng.Shuffle(len(flanks), func(i, j int) {
			flanks[i].kind, flanks[j].kind = flanks[j].kind, flanks[i].kind
		})
	}

	slots := []slot{
		{core.HQ, rear.Start, []int{mid}},
		{core.Advisor, rear.Start, pair(mid - 1)},
		{core.General, main.Start, []int{mid}},
		{core.LeftCommander, main.End, []int{flank}},
		{core.Noble, main.End, []int{mid}},
		{core.RightCommander, main.End, []int{size - 1 - flank}},
		{core.Cavalry, main.End, append(append(pair(flank-1), pair(flank+1)...), pair(mid-1)...)},
		{core.Vanguard, front.Start, []int{mid}},
	}
	slots = append(slots, flanks...)

	var infantry []int
	for c := 0; c < size; c++ {
		if !layout.IsGap(c) {
			infantry = append(infantry, c)
		}
	}
	slots = append(slots, slot{core.Infantry, front.End, infantry})

	var pieces []core.Piece
	for _, s := range slots {
		for _, c := range s.cols {
			pieces = append(pieces, core.NewPiece(s.kind, core.Black, core.NewPosition(s.row, c)))
		}
	}
	return pieces
}

func mirrorRow(p core.Position, size int) core.Position {
	return core.NewPosition(size-1-p.Row, p.Col)
}
