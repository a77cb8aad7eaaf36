package testutil

import (
	"strings"
	"testing"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// BoardSize is the side length of the fixture layout
const BoardSize = 15

// Layout returns a 15x15 layout with river rows 6-8, the contested city at
// (7,7) and gap columns 4 and 10. Red's home is the bottom half.
func Layout(pieces ...core.Piece) *core.Layout {
	return &core.Layout{
		Size:          BoardSize,
		RiverRows:     []int{6, 7, 8},
		ContestedCity: core.Position{Row: 7, Col: 7},
		Gaps:          []int{4, 10},
		Divisions:     [3]core.Span{{Start: 0, End: 3}, {Start: 5, End: 9}, {Start: 11, End: 14}},
		Bands: [2][3]core.Span{
			core.Red:   {{Start: 9, End: 10}, {Start: 11, End: 12}, {Start: 13, End: 14}},
			core.Black: {{Start: 4, End: 5}, {Start: 2, End: 3}, {Start: 0, End: 1}},
		},
		Pieces: pieces,
	}
}

// P is a shorthand piece constructor for tables
func P(owner core.Owner, kind core.Kind, row, col int) core.Piece {
	return core.NewPiece(kind, owner, core.Position{Row: row, Col: col})
}

// BoardWith places pieces on an otherwise empty fixture board
func BoardWith(t testing.TB, pieces ...core.Piece) *core.Board {
	t.Helper()
	b := core.NewBoard(Layout(pieces...))
	ed := b.Edit()
	for _, p := range pieces {
		if err := ed.Put(p); err != nil {
			t.Fatalf("placing %s: %v", p, err)
		}
	}
	return ed.Board()
}

// BoardFromRows builds a fixture board from an ASCII diagram. Upper-case
// piece codes are Red, lower-case are Black, '.' is empty and spaces are
// ignored. Missing rows and columns are empty.
func BoardFromRows(t testing.TB, rows ...string) *core.Board {
	t.Helper()
	if len(rows) > BoardSize {
		t.Fatalf("diagram has %d rows, board has %d", len(rows), BoardSize)
	}
	var pieces []core.Piece
	for r, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) > BoardSize {
			t.Fatalf("row %d has %d cells, board has %d", r, len(line), BoardSize)
		}
		for c, ch := range line {
			if ch == '.' {
				continue
			}
			kind, err := core.ParseKind(string(ch))
			if err != nil {
				t.Fatalf("row %d col %d: %v", r, c, err)
			}
			owner := core.Red
			if ch >= 'a' && ch <= 'z' {
				owner = core.Black
			}
			pieces = append(pieces, P(owner, kind, r, c))
		}
	}
	return BoardWith(t, pieces...)
}
