package core

// testLayout is a 15x15 board: river rows 6-8, gaps at columns 4 and 10.
func testLayout() *Layout {
	return &Layout{
		Size:          15,
		RiverRows:     []int{6, 7, 8},
		ContestedCity: Position{Row: 7, Col: 7},
		Gaps:          []int{4, 10},
		Divisions:     [3]Span{{0, 3}, {5, 9}, {11, 14}},
		Bands: [2][3]Span{
			Red:   {{9, 10}, {11, 12}, {13, 14}},
			Black: {{4, 5}, {2, 3}, {0, 1}},
		},
		Pieces: []Piece{
			NewPiece(HQ, Red, Position{14, 7}),
			NewPiece(General, Red, Position{12, 7}),
			NewPiece(HQ, Black, Position{0, 7}),
			NewPiece(General, Black, Position{2, 7}),
		},
	}
}

func place(t interface{ Fatalf(string, ...any) }, b *Board, pieces ...Piece) *Board {
	ed := b.Edit()
	for _, p := range pieces {
		if err := ed.Put(p); err != nil {
			t.Fatalf("place %s: %v", p, err)
		}
	}
	return ed.Board()
}
