package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/testutil"
)

func TestCanFireRanged(t *testing.T) {
	tests := []struct {
		name    string
		pieces  []core.Piece
		shooter core.Position
		target  core.Position
		canFire bool
	}{
		{
			name: "archer hits infantry three cells ahead",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Archer, 10, 5),
				testutil.P(core.Black, core.Infantry, 7, 5),
			},
			shooter: pos(10, 5),
			target:  pos(7, 5),
			canFire: true,
		},
		{
			name: "archer reaches four cells",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Archer, 10, 5),
				testutil.P(core.Black, core.Infantry, 6, 5),
			},
			shooter: pos(10, 5),
			target:  pos(6, 5),
			canFire: true,
		},
		{
			name: "crossbow falls short at four cells",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Crossbowman, 10, 5),
				testutil.P(core.Black, core.Infantry, 6, 5),
			},
			shooter: pos(10, 5),
		},
		{
			name: "black crossbow fires down the board",
			pieces: []core.Piece{
				testutil.P(core.Black, core.Crossbowman, 3, 2),
				testutil.P(core.Red, core.Cavalry, 5, 2),
			},
			shooter: pos(3, 2),
			target:  pos(5, 2),
			canFire: true,
		},
		{
			name: "enemy in melee range blocks fire",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Archer, 10, 5),
				testutil.P(core.Black, core.Infantry, 9, 5),
				testutil.P(core.Black, core.Infantry, 7, 5),
			},
			shooter: pos(10, 5),
		},
		{
			name: "friendly piece blocks the lane",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Archer, 10, 5),
				testutil.P(core.Red, core.Infantry, 8, 5),
				testutil.P(core.Black, core.Infantry, 7, 5),
			},
			shooter: pos(10, 5),
		},
		{
			name: "siege engine absorbs the shot",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Archer, 10, 5),
				testutil.P(core.Black, core.Siege, 8, 5),
				testutil.P(core.Black, core.Infantry, 7, 5),
			},
			shooter: pos(10, 5),
		},
		{
			name:    "nothing to shoot",
			pieces:  []core.Piece{testutil.P(core.Red, core.Archer, 10, 5)},
			shooter: pos(10, 5),
		},
		{
			name: "melee units have no ranged fire",
			pieces: []core.Piece{
				testutil.P(core.Red, core.Infantry, 10, 5),
				testutil.P(core.Black, core.Infantry, 8, 5),
			},
			shooter: pos(10, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.BoardWith(t, tt.pieces...)
			shooter, ok := b.Get(tt.shooter)
			require.True(t, ok)

			target, canFire := CanFireRanged(b, shooter)
			assert.Equal(t, tt.canFire, canFire)
			if tt.canFire {
				assert.Equal(t, tt.target, target)
			}
		})
	}
}

func TestVolleyTargets(t *testing.T) {
	b := testutil.BoardWith(t,
		testutil.P(core.Red, core.Archer, 12, 5),
		testutil.P(core.Black, core.Infantry, 8, 4),
		testutil.P(core.Black, core.Cavalry, 7, 6),
		testutil.P(core.Black, core.Advisor, 6, 5),
		testutil.P(core.Black, core.Siege, 8, 5),
		testutil.P(core.Red, core.Infantry, 7, 5),
		testutil.P(core.Black, core.Infantry, 9, 5), // too close
		testutil.P(core.Black, core.Infantry, 5, 5), // too far
		testutil.P(core.Black, core.Infantry, 7, 7), // outside the band
	)
	archer, _ := b.Get(pos(12, 5))

	assert.ElementsMatch(t,
		[]core.Position{pos(8, 4), pos(7, 6), pos(6, 5)},
		VolleyTargets(b, archer))

	crossbow := testutil.P(core.Red, core.Crossbowman, 12, 5)
	assert.Empty(t, VolleyTargets(b, crossbow), "only archers volley")
}

func TestConvertTargets(t *testing.T) {
	b := testutil.BoardWith(t,
		testutil.P(core.Red, core.Priest, 10, 5),
		testutil.P(core.Black, core.Infantry, 9, 5),
		testutil.P(core.Black, core.Advisor, 11, 6),
		testutil.P(core.Black, core.Cavalry, 10, 6),
		testutil.P(core.Red, core.Infantry, 9, 4),
		testutil.P(core.Black, core.Infantry, 8, 5),
	)
	priest, _ := b.Get(pos(10, 5))

	assert.ElementsMatch(t, []core.Position{pos(9, 5), pos(11, 6)}, ConvertTargets(b, priest))

	archer := testutil.P(core.Red, core.Archer, 10, 5)
	assert.Empty(t, ConvertTargets(b, archer))
}

func TestThreatenedSquares(t *testing.T) {
	b := testutil.BoardWith(t,
		testutil.P(core.Black, core.Archer, 2, 5),
		testutil.P(core.Red, core.Infantry, 5, 5), // direct fire at distance 3
		testutil.P(core.Red, core.Cavalry, 7, 4),  // volley band
		testutil.P(core.Black, core.Crossbowman, 3, 9),
		testutil.P(core.Red, core.Infantry, 5, 9),
	)

	threatened := ThreatenedSquares(b, core.Red)
	assert.ElementsMatch(t, []core.Position{pos(5, 5), pos(7, 4), pos(5, 9)}, threatened)
	assert.Empty(t, ThreatenedSquares(b, core.Black))
}

func TestThreatenedSquares_Deduplicates(t *testing.T) {
	b := testutil.BoardWith(t,
		testutil.P(core.Black, core.Archer, 2, 5),
		testutil.P(core.Black, core.Archer, 2, 6),
		testutil.P(core.Red, core.Infantry, 7, 5),
	)

	assert.Equal(t, []core.Position{pos(7, 5)}, ThreatenedSquares(b, core.Red))
}

func TestThreatenedSquares_SkipsReloading(t *testing.T) {
	archer := testutil.P(core.Black, core.Archer, 2, 5)
	archer.Reloading = true
	b := testutil.BoardWith(t, archer, testutil.P(core.Red, core.Infantry, 5, 5))

	assert.Empty(t, ThreatenedSquares(b, core.Red))
}
