package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/mapgen"
	"github.com/zhanguoqi/engine/internal/testutil"
)

const verticalZones = `vertical_zones:
  red:
    front: {start: 9, end: 10}
    main: {start: 11, end: 12}
    rear: {start: 13, end: 14}
  black:
    front: {start: 4, end: 5}
    main: {start: 2, end: 3}
    rear: {start: 0, end: 1}
`

const smallLayout = `
board_size: 15
river:
  rows: [6, 7, 8]
  contested_city: {row: 7, col: 7}
gaps: [4, 10]
zones:
  left: {start: 0, end: 3}
  center: {start: 5, end: 9}
  right: {start: 11, end: 14}
` + verticalZones + `red:
  pieces:
    - {type: H, row: 14, col: 7}
    - {type: G, row: 13, col: 7}
    - {type: I, row: 10, col: 2, health: 2}
black:
  pieces:
    - {type: h, row: 0, col: 7}
    - {type: G, row: 1, col: 7}
`

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout([]byte(smallLayout))
	require.NoError(t, err)

	want := testutil.Layout(
		testutil.P(core.Red, core.HQ, 14, 7),
		testutil.P(core.Red, core.General, 13, 7),
		core.Piece{Kind: core.Infantry, Owner: core.Red, Pos: core.NewPosition(10, 2), Health: 2},
		testutil.P(core.Black, core.HQ, 0, 7),
		testutil.P(core.Black, core.General, 1, 7),
	)
	assert.Equal(t, want, layout)
}

func TestParseLayout_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		message string
	}{
		{"bad size", "board_size: 15", "board_size: 0", "board size"},
		{"river off board", "rows: [6, 7, 8]", "rows: [6, 7, 15]", "river row"},
		{"city outside river", "contested_city: {row: 7, col: 7}", "contested_city: {row: 3, col: 7}", "contested city"},
		{"zone over gap", "center: {start: 5, end: 9}", "center: {start: 4, end: 9}", "gap column"},
		{"band off board", "rear: {start: 13, end: 14}", "rear: {start: 13, end: 15}", "band"},
		{"no vertical zones", verticalZones, "", "outside home territory"},
		{"red band in river", "front: {start: 9, end: 10}", "front: {start: 8, end: 10}", "outside home territory"},
		{"black bands overlap", "main: {start: 2, end: 3}", "main: {start: 1, end: 3}", "overlaps"},
		{"unknown code", "{type: I, row: 10, col: 2, health: 2}", "{type: Q, row: 10, col: 2}", "unknown piece code"},
		{"negative health", "health: 2}", "health: -1}", "negative health"},
		{"off board", "{type: I, row: 10, col: 2, health: 2}", "{type: I, row: 10, col: 20}", "off the board"},
		{"shared cell", "{type: I, row: 10, col: 2, health: 2}", "{type: I, row: 13, col: 7}", "share a cell"},
		{"missing general", "- {type: G, row: 1, col: 7}", "- {type: A, row: 1, col: 7}", "General and an HQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := strings.Replace(smallLayout, tt.from, tt.to, 1)
			require.NotEqual(t, smallLayout, yaml, "fixture edit did not apply")

			_, err := ParseLayout([]byte(yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidLayout)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseLayout_Malformed(t *testing.T) {
	_, err := ParseLayout([]byte("board_size: [1, 2\n"))
	assert.Error(t, err)
}

func TestDefaultLayout(t *testing.T) {
	layout, err := DefaultLayout()
	require.NoError(t, err)

	assert.Equal(t, 25, layout.Size)
	assert.Equal(t, []int{11, 12, 13}, layout.RiverRows)
	assert.Equal(t, core.NewPosition(12, 12), layout.ContestedCity)
	assert.Equal(t, []int{7, 17}, layout.Gaps)
	assert.Equal(t, core.ZoneLeft, layout.ZoneOf(6))
	assert.Equal(t, core.ZoneCenter, layout.ZoneOf(12))
	assert.Equal(t, core.ZoneRight, layout.ZoneOf(18))
	assert.Equal(t, core.BandFront, layout.VerticalZoneOf(14, core.Red))
	assert.Equal(t, core.BandRear, layout.VerticalZoneOf(0, core.Black))

	board, err := core.NewInitialBoard(layout)
	require.NoError(t, err)
	assert.Equal(t, 49, board.Count(core.Red))
	assert.Equal(t, 49, board.Count(core.Black))

	hq, ok := board.FindByType(core.Red, core.HQ)
	require.True(t, ok)
	assert.Equal(t, core.NewPosition(24, 12), hq.Pos)
}

func TestDefaultLayout_MatchesGenerator(t *testing.T) {
	embedded, err := DefaultLayout()
	require.NoError(t, err)
	generated, err := mapgen.NewGenerator(mapgen.DefaultMapConfig(25), nil).GenerateLayout()
	require.NoError(t, err)

	assert.Equal(t, generated.RiverRows, embedded.RiverRows)
	assert.Equal(t, generated.Gaps, embedded.Gaps)
	assert.Equal(t, generated.Divisions, embedded.Divisions)
	assert.Equal(t, generated.Bands, embedded.Bands)
	assert.ElementsMatch(t, generated.Pieces, embedded.Pieces)
}

func TestLoadLayout(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "layout.yaml", smallLayout)
		layout, err := LoadLayout(path)
		require.NoError(t, err)
		assert.Equal(t, 15, layout.Size)
		assert.Len(t, layout.Pieces, 5)
	})

	t.Run("empty path is the default", func(t *testing.T) {
		layout, err := LoadLayout("")
		require.NoError(t, err)
		assert.Equal(t, 25, layout.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLayout("/non/existent/layout.yaml")
		assert.Error(t, err)
	})
}

func TestResolveLayout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "layout.yaml", smallLayout)

	t.Run("layout file", func(t *testing.T) {
		layout, err := ResolveLayout(&Config{Game: GameConfig{LayoutFile: path}}, testutil.NewTestRNG(1))
		require.NoError(t, err)
		assert.Equal(t, 15, layout.Size)
	})

	t.Run("generated board wins over the file", func(t *testing.T) {
		c := &Config{Game: GameConfig{LayoutFile: path, Generate: GenerateConfig{Size: 19, ShuffleFlanks: true}}}
		layout, err := ResolveLayout(c, testutil.NewTestRNG(1))
		require.NoError(t, err)
		assert.Equal(t, 19, layout.Size)
	})
}
