package formation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/testutil"
)

func TestTable(t *testing.T) {
	expectedMin := map[Kind]int{
		Line: 3, Column: 3, Wedge: 4, ShieldWall: 5, HollowSquare: 8, Echelon: 3, Skirmish: 3,
	}
	require.Len(t, Kinds(), 7)
	for _, k := range Kinds() {
		info := k.Info()
		assert.Equal(t, expectedMin[k], info.MinPieces, k.String())
		assert.NotEmpty(t, info.Symbol)
		assert.GreaterOrEqual(t, len(info.Pattern), info.MinPieces)
		assert.Contains(t, info.Pattern, core.Position{}, "%s pattern must include the commander cell", k)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Kind
		wantErr  bool
	}{
		{"line", Line, false},
		{"shield_wall", ShieldWall, false},
		{"Shield Wall", ShieldWall, false},
		{"  HOLLOW_SQUARE ", HollowSquare, false},
		{"phalanx", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrUnknownFormation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
		})
	}
}

func TestNoneHasNoInfo(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.False(t, None.Valid())
	testutil.AssertPanic(t, func() { None.Info() })
}

func TestPositions(t *testing.T) {
	t.Run("red column points up the board", func(t *testing.T) {
		got := Positions(core.Position{Row: 10, Col: 5}, Column, 3, core.Red, 15)
		assert.Equal(t, []core.Position{{Row: 7, Col: 5}, {Row: 8, Col: 5}, {Row: 9, Col: 5}}, got)
	})

	t.Run("black column points down the board", func(t *testing.T) {
		got := Positions(core.Position{Row: 4, Col: 5}, Column, 3, core.Black, 15)
		assert.Equal(t, []core.Position{{Row: 7, Col: 5}, {Row: 6, Col: 5}, {Row: 5, Col: 5}}, got)
	})

	t.Run("off-board cells are dropped", func(t *testing.T) {
		got := Positions(core.Position{Row: 0, Col: 0}, Line, 7, core.Red, 15)
		assert.Equal(t, []core.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}, got)
	})

	t.Run("count is capped by the pattern", func(t *testing.T) {
		got := Positions(core.Position{Row: 12, Col: 12}, Line, 100, core.Black, 25)
		assert.Len(t, got, len(Line.Info().Pattern))
	})
}

func TestAdvantage(t *testing.T) {
	s, ok := Advantage(Wedge, ShieldWall)
	assert.True(t, ok)
	assert.Equal(t, "Wedge breaks through Shield Wall", s)

	_, ok = Advantage(ShieldWall, Wedge)
	assert.False(t, ok, "advantages are asymmetric")

	count := 0
	for _, a := range Kinds() {
		for _, d := range Kinds() {
			if _, ok := Advantage(a, d); ok {
				count++
			}
		}
	}
	assert.Equal(t, 6, count)
}

func TestCombatModifier(t *testing.T) {
	tests := []struct {
		name      string
		attacker  Kind
		defender  Kind
		ranged    bool
		attackers int
		expected  CombatResult
	}{
		{"line into line", Line, Line, false, 1, CombatResult{CanAttack: true}},
		{"lone attacker bounces off shield wall", Line, ShieldWall, false, 1,
			CombatResult{Reason: "Shield Wall requires 2+ attackers or ranged fire"}},
		{"two attackers engage shield wall", Line, ShieldWall, false, 2, CombatResult{CanAttack: true}},
		{"ranged fire engages shield wall", Echelon, ShieldWall, true, 1, CombatResult{CanAttack: true}},
		{"wedge breaks shield wall", Wedge, ShieldWall, false, 1,
			CombatResult{CanAttack: true, Effect: FormationBreak}},
		{"skirmish dodges ranged fire", Line, Skirmish, true, 1,
			CombatResult{Reason: "Skirmish formation too spread out for ranged fire"}},
		{"skirmish can be met in melee", Line, Skirmish, false, 1, CombatResult{CanAttack: true}},
		{"column pushes", Column, Line, false, 1, CombatResult{CanAttack: true, Effect: Push}},
		{"column blocked by shield wall still reports push", Column, ShieldWall, false, 1,
			CombatResult{Reason: "Shield Wall requires 2+ attackers or ranged fire", Effect: Push}},
		{"no formation behaves like an open field", None, None, true, 1, CombatResult{CanAttack: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CombatModifier(tt.attacker, tt.defender, tt.ranged, tt.attackers))
		})
	}
}

func TestTags(t *testing.T) {
	var tags Tags
	layout := testutil.Layout()

	assert.Equal(t, Line, tags.Of(core.Red, core.ZoneLeft))
	assert.Equal(t, None, tags.Of(core.Red, core.ZoneGap))

	changed := tags.With(core.Black, core.ZoneCenter, Wedge)
	assert.Equal(t, Wedge, changed.Of(core.Black, core.ZoneCenter))
	assert.Equal(t, Line, changed.Of(core.Red, core.ZoneCenter))
	assert.Equal(t, Line, tags.Of(core.Black, core.ZoneCenter), "original tags are untouched")

	assert.Equal(t, Wedge, changed.At(layout, core.Black, 7))
	assert.Equal(t, None, changed.At(layout, core.Black, 4))

	assert.Equal(t, changed, changed.With(core.Red, core.ZoneGap, Column), "gap zones cannot be tagged")
}
