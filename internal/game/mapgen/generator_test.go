package mapgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func generate(t *testing.T, config MapConfig) *core.Layout {
	t.Helper()
	layout, err := NewGenerator(config, newTestRNG()).GenerateLayout()
	require.NoError(t, err)
	return layout
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig(25)
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng)
	assert.False(t, config.ShuffleFlanks)
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		size    int
		wantErr bool
	}{
		{13, true},
		{14, true},
		{15, false},
		{16, true},
		{25, false},
		{31, false},
	}
	for _, tt := range tests {
		err := ValidateSize(tt.size)
		if tt.wantErr {
			assert.ErrorIs(t, err, core.ErrInvalidLayout, "size %d", tt.size)
		} else {
			assert.NoError(t, err, "size %d", tt.size)
		}
	}
}

func TestGenerateLayout_RejectsBadSize(t *testing.T) {
	_, err := NewGenerator(DefaultMapConfig(20), newTestRNG()).GenerateLayout()
	assert.ErrorIs(t, err, core.ErrInvalidLayout)
}

func TestGenerateLayout_Terrain25(t *testing.T) {
	layout := generate(t, DefaultMapConfig(25))

	assert.Equal(t, 25, layout.Size)
	assert.Equal(t, []int{11, 12, 13}, layout.RiverRows)
	assert.Equal(t, core.NewPosition(12, 12), layout.ContestedCity)
	assert.Equal(t, []int{7, 17}, layout.Gaps)
	assert.Equal(t, [3]core.Span{{Start: 0, End: 6}, {Start: 8, End: 16}, {Start: 18, End: 24}}, layout.Divisions)
	assert.Equal(t, [3]core.Span{{Start: 7, End: 10}, {Start: 4, End: 6}, {Start: 0, End: 3}}, layout.Bands[core.Black])
	assert.Equal(t, [3]core.Span{{Start: 14, End: 17}, {Start: 18, End: 20}, {Start: 21, End: 24}}, layout.Bands[core.Red])
}

func TestGenerateLayout_Terrain15(t *testing.T) {
	layout := generate(t, DefaultMapConfig(15))

	assert.Equal(t, []int{6, 7, 8}, layout.RiverRows)
	assert.Equal(t, []int{4, 10}, layout.Gaps)
	assert.Equal(t, [3]core.Span{{Start: 0, End: 3}, {Start: 5, End: 9}, {Start: 11, End: 14}}, layout.Divisions)
	assert.Equal(t, [3]core.Span{{Start: 4, End: 5}, {Start: 2, End: 3}, {Start: 0, End: 1}}, layout.Bands[core.Black])
}

func TestGenerateLayout_Roster(t *testing.T) {
	layout := generate(t, DefaultMapConfig(25))

	counts := map[core.Owner]map[core.Kind]int{core.Red: {}, core.Black: {}}
	at := make(map[core.Position]core.Piece)
	for _, p := range layout.Pieces {
		counts[p.Owner][p.Kind]++
		at[p.Pos] = p
	}

	want := map[core.Kind]int{
		core.General:        1,
		core.HQ:             1,
		core.Vanguard:       1,
		core.Noble:          1,
		core.LeftCommander:  1,
		core.RightCommander: 1,
		core.Advisor:        2,
		core.Infantry:       23,
		core.Cavalry:        6,
		core.Crossbowman:    4,
		core.Siege:          2,
		core.Chariot:        2,
		core.Archer:         2,
		core.Priest:         2,
	}
	assert.Equal(t, want, counts[core.Black])
	assert.Equal(t, want, counts[core.Red])

	assert.Equal(t, core.HQ, at[core.NewPosition(0, 12)].Kind)
	assert.Equal(t, core.General, at[core.NewPosition(4, 12)].Kind)
	assert.Equal(t, core.LeftCommander, at[core.NewPosition(6, 3)].Kind)
	assert.Equal(t, core.RightCommander, at[core.NewPosition(6, 21)].Kind)
	assert.Equal(t, core.Vanguard, at[core.NewPosition(7, 12)].Kind)
	assert.Equal(t, core.Infantry, at[core.NewPosition(10, 0)].Kind)
	_, onGap := at[core.NewPosition(10, 7)]
	assert.False(t, onGap, "no piece starts on a gap column")

	hq := at[core.NewPosition(24, 12)]
	assert.Equal(t, core.HQ, hq.Kind)
	assert.Equal(t, core.Red, hq.Owner)
	assert.Equal(t, core.HQ.DefaultHealth(), hq.Health)
}

func TestGenerateLayout_Mirrored(t *testing.T) {
	for _, shuffle := range []bool{false, true} {
		config := DefaultMapConfig(21)
		config.ShuffleFlanks = shuffle
		layout := generate(t, config)

		at := make(map[core.Position]core.Piece)
		for _, p := range layout.Pieces {
			at[p.Pos] = p
		}
		for _, p := range layout.Pieces {
			if p.Owner != core.Black {
				continue
			}
			twin, ok := at[mirrorRow(p.Pos, layout.Size)]
			require.True(t, ok, "no mirror of %s", p)
			assert.Equal(t, core.Red, twin.Owner)
			assert.Equal(t, p.Kind, twin.Kind)
			assert.True(t, layout.IsOwnSide(p.Pos.Row, core.Black))
			assert.True(t, layout.IsOwnSide(twin.Pos.Row, core.Red))
		}
	}
}

func TestGenerateLayout_ShuffleFlanks(t *testing.T) {
	plain := generate(t, DefaultMapConfig(25))

	config := DefaultMapConfig(25)
	config.ShuffleFlanks = true
	first, err := NewGenerator(config, rand.New(rand.NewSource(7))).GenerateLayout()
	require.NoError(t, err)
	again, err := NewGenerator(config, rand.New(rand.NewSource(7))).GenerateLayout()
	require.NoError(t, err)

	assert.Equal(t, first.Pieces, again.Pieces, "same seed gives the same deal")
	assert.ElementsMatch(t, positions(plain), positions(first), "shuffling only changes kinds")

	kinds := func(l *core.Layout) map[core.Kind]int {
		out := make(map[core.Kind]int)
		for _, p := range l.Pieces {
			out[p.Kind]++
		}
		return out
	}
	assert.Equal(t, kinds(plain), kinds(first))
}

func TestGenerateLayout_Playable(t *testing.T) {
	for _, size := range []int{15, 17, 25, 31} {
		layout := generate(t, DefaultMapConfig(size))
		board, err := core.NewInitialBoard(layout)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, board.Count(core.Red), board.Count(core.Black), "size %d", size)
	}
}

func positions(l *core.Layout) []core.Position {
	out := make([]core.Position, 0, len(l.Pieces))
	for _, p := range l.Pieces {
		out = append(out, p.Pos)
	}
	return out
}
