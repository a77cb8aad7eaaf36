package core

import "fmt"

// Board is an immutable snapshot of the grid. Cells hold pointers into a
// shared arena of piece records: cloning copies only the pointer slice and
// edits replace records rather than mutating them, so every snapshot that
// ever existed stays intact.
type Board struct {
	layout *Layout
	cells  []*Piece // length = Size*Size (row-major)
}

// NewBoard returns an empty board for the layout; the roster is ignored.
func NewBoard(layout *Layout) *Board {
	return &Board{layout: layout, cells: make([]*Piece, layout.Size*layout.Size)}
}

// NewInitialBoard validates the layout and places its starting roster.
func NewInitialBoard(layout *Layout) (*Board, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	b := NewBoard(layout)
	for _, p := range layout.Pieces {
		if p.Health <= 0 {
			p.Health = p.Kind.DefaultHealth()
		}
		rec := p
		b.cells[b.idx(p.Pos)] = &rec
	}
	return b, nil
}

func (b *Board) idx(p Position) int { return p.ToIndex(b.layout.Size) }

// Size is the side length of the square grid
func (b *Board) Size() int { return b.layout.Size }

// Layout returns the static layout the board was built from
func (b *Board) Layout() *Layout { return b.layout }

// InBounds checks if a position is on the board
func (b *Board) InBounds(p Position) bool { return p.IsValid(b.layout.Size) }

// Get returns a copy of the piece at p. Out-of-bounds cells are empty.
func (b *Board) Get(p Position) (Piece, bool) {
	if !b.InBounds(p) {
		return Piece{}, false
	}
	rec := b.cells[b.idx(p)]
	if rec == nil {
		return Piece{}, false
	}
	return *rec, true
}

// IsEmpty reports whether p is on the board and unoccupied
func (b *Board) IsEmpty(p Position) bool {
	return b.InBounds(p) && b.cells[b.idx(p)] == nil
}

// Pieces returns every piece in row-major order, optionally filtered to the
// given owners.
func (b *Board) Pieces(owners ...Owner) []Piece {
	out := make([]Piece, 0, 64)
	for _, rec := range b.cells {
		if rec == nil {
			continue
		}
		if len(owners) > 0 && !ownerIn(rec.Owner, owners) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

// Count returns the number of pieces, optionally filtered to the given owners
func (b *Board) Count(owners ...Owner) int {
	n := 0
	for _, rec := range b.cells {
		if rec != nil && (len(owners) == 0 || ownerIn(rec.Owner, owners)) {
			n++
		}
	}
	return n
}

func ownerIn(o Owner, owners []Owner) bool {
	for _, x := range owners {
		if x == o {
			return true
		}
	}
	return false
}

// FindByType returns the first piece of kind owned by owner in row-major order
func (b *Board) FindByType(owner Owner, kind Kind) (Piece, bool) {
	for _, rec := range b.cells {
		if rec != nil && rec.Owner == owner && rec.Kind == kind {
			return *rec, true
		}
	}
	return Piece{}, false
}

// ZoneOf maps a column to its division
func (b *Board) ZoneOf(col int) Zone { return b.layout.ZoneOf(col) }

// VerticalZoneOf returns owner's depth band for row
func (b *Board) VerticalZoneOf(row int, owner Owner) Band {
	return b.layout.VerticalZoneOf(row, owner)
}

// Clone returns an independent snapshot sharing the piece arena
func (b *Board) Clone() *Board {
	cells := make([]*Piece, len(b.cells))
	copy(cells, b.cells)
	return &Board{layout: b.layout, cells: cells}
}

// Equal compares two boards cell by cell
func (b *Board) Equal(other *Board) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil || len(b.cells) != len(other.cells) {
		return false
	}
	for i, rec := range b.cells {
		o := other.cells[i]
		switch {
		case rec == nil && o == nil:
		case rec == nil || o == nil:
			return false
		case *rec != *o:
			return false
		}
	}
	return true
}

// Edit starts a batch of changes on a fresh clone of the board
func (b *Board) Edit() *Editor {
	return &Editor{b: b.Clone()}
}

// Editor applies targeted cell edits to a private clone. Board returns the
// finished snapshot; the editor must not be used afterwards.
type Editor struct {
	b *Board
}

// Get reads the work-in-progress board
func (e *Editor) Get(p Position) (Piece, bool) { return e.b.Get(p) }

// Put places a piece at its own position, replacing any occupant
func (e *Editor) Put(p Piece) error {
	if !e.b.InBounds(p.Pos) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p.Pos)
	}
	rec := p
	e.b.cells[e.b.idx(p.Pos)] = &rec
	return nil
}

// Remove clears a cell and returns what was there
func (e *Editor) Remove(p Position) (Piece, bool) {
	old, ok := e.b.Get(p)
	if ok {
		e.b.cells[e.b.idx(p)] = nil
	}
	return old, ok
}

// Move relocates the piece at from to to, returning the captured occupant
// of to if there was one.
func (e *Editor) Move(from, to Position) (Piece, bool, error) {
	if !e.b.InBounds(from) || !e.b.InBounds(to) {
		return Piece{}, false, ErrOutOfBounds
	}
	mover, ok := e.b.Get(from)
	if !ok {
		return Piece{}, false, ErrNoPiece
	}
	captured, hit := e.b.Get(to)
	mover.Pos = to
	rec := mover
	e.b.cells[e.b.idx(from)] = nil
	e.b.cells[e.b.idx(to)] = &rec
	return captured, hit, nil
}

// Update replaces the piece at p with a modified copy
func (e *Editor) Update(p Position, fn func(*Piece)) bool {
	cur, ok := e.b.Get(p)
	if !ok {
		return false
	}
	fn(&cur)
	cur.Pos = p
	e.b.cells[e.b.idx(p)] = &cur
	return true
}

// Board returns the edited snapshot
func (e *Editor) Board() *Board { return e.b }

// ApplyHQAdjacencyDamage deals one damage to owner's General for every
// enemy piece in the 8 cells around it, so at most 8 per call. The HQ is
// never hit. Health never drops below zero. The input board is unchanged.
func (b *Board) ApplyHQAdjacencyDamage(owner Owner) (*Board, int) {
	general, ok := b.FindByType(owner, General)
	if !ok {
		return b, 0
	}
	hits := 0
	for _, n := range general.Pos.ValidNeighbors(b.Size()) {
		if p, ok := b.Get(n); ok && p.Owner != owner {
			hits++
		}
	}
	if hits == 0 {
		return b, 0
	}
	ed := b.Edit()
	ed.Update(general.Pos, func(p *Piece) { p.Health = max(0, p.Health-hits) })
	return ed.Board(), hits
}

// ResetReloading clears the reloading flag on owner's pieces
func (b *Board) ResetReloading(owner Owner) *Board {
	var ed *Editor
	for _, p := range b.Pieces(owner) {
		if !p.Reloading {
			continue
		}
		if ed == nil {
			ed = b.Edit()
		}
		ed.Update(p.Pos, func(p *Piece) { p.Reloading = false })
	}
	if ed == nil {
		return b.Clone()
	}
	return ed.Board()
}
