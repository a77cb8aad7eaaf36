package rules

import "github.com/zhanguoqi/engine/internal/game/core"

// Mover generates destinations for one piece kind. The set of movers is
// closed: every kind is bound to exactly one implementation in movers.
type Mover interface {
	Destinations(b *core.Board, p core.Piece) []core.Position
}

// stepMover walks up to reach cells along each direction, stopping at the
// first occupied cell. The occupied cell is included when it holds an enemy
// and captures are allowed.
type stepMover struct {
	dirs     []core.Position
	reach    int
	captures bool
}

func (m stepMover) Destinations(b *core.Board, p core.Piece) []core.Position {
	out := make([]core.Position, 0, len(m.dirs)*m.reach)
	for _, d := range m.dirs {
		for i := 1; i <= m.reach; i++ {
			to := p.Pos.Add(d.Scale(i))
			if !b.InBounds(to) {
				break
			}
			target, occupied := b.Get(to)
			if !occupied {
				out = append(out, to)
				continue
			}
			if m.captures && target.Owner != p.Owner {
				out = append(out, to)
			}
			break
		}
	}
	return out
}

// infantryMover steps forward or sideways, and backward only while still in
// its own home territory.
type infantryMover struct{}

func (infantryMover) Destinations(b *core.Board, p core.Piece) []core.Position {
	fwd := p.Owner.Forward()
	dirs := []core.Position{{Row: fwd}, core.West, core.East}
	if b.Layout().IsOwnSide(p.Pos.Row, p.Owner) {
		dirs = append(dirs, core.Position{Row: -fwd})
	}
	return landings(b, p, dirs)
}

// knightMover jumps over anything to the eight L-shaped offsets.
type knightMover struct{}

func (knightMover) Destinations(b *core.Board, p core.Piece) []core.Position {
	return landings(b, p, core.KnightOffsets)
}

// chariotMover moves exactly two cells orthogonally. A friendly piece in the
// middle cell blocks; an enemy there is jumped, not captured.
type chariotMover struct{}

func (chariotMover) Destinations(b *core.Board, p core.Piece) []core.Position {
	out := make([]core.Position, 0, 4)
	for _, d := range core.OrthogonalDirections {
		mid := p.Pos.Add(d)
		if !b.InBounds(mid) {
			continue
		}
		if m, ok := b.Get(mid); ok && m.Owner == p.Owner {
			continue
		}
		to := p.Pos.Add(d.Scale(2))
		if canLand(b, p, to) {
			out = append(out, to)
		}
	}
	return out
}

// immobile is the HQ: it is never offered as a mover.
type immobile struct{}

func (immobile) Destinations(*core.Board, core.Piece) []core.Position { return nil }

// landings keeps the offsets that land on an empty or enemy cell.
func landings(b *core.Board, p core.Piece, offsets []core.Position) []core.Position {
	out := make([]core.Position, 0, len(offsets))
	for _, d := range offsets {
		to := p.Pos.Add(d)
		if canLand(b, p, to) {
			out = append(out, to)
		}
	}
	return out
}

func canLand(b *core.Board, p core.Piece, to core.Position) bool {
	if !b.InBounds(to) {
		return false
	}
	target, occupied := b.Get(to)
	return !occupied || target.Owner != p.Owner
}

var movers = map[core.Kind]Mover{
	core.General:        stepMover{dirs: core.OrthogonalDirections, reach: 1, captures: true},
	core.HQ:             immobile{},
	core.Vanguard:       stepMover{dirs: core.AllDirections, reach: 2, captures: true},
	core.Noble:          stepMover{dirs: core.AllDirections, reach: 2, captures: true},
	core.LeftCommander:  stepMover{dirs: core.AllDirections, reach: 2, captures: true},
	core.RightCommander: stepMover{dirs: core.AllDirections, reach: 2, captures: true},
	core.Advisor:        stepMover{dirs: core.DiagonalDirections, reach: 1, captures: true},
	core.Infantry:       infantryMover{},
	core.Cavalry:        knightMover{},
	core.Crossbowman:    stepMover{dirs: core.AllDirections, reach: 1, captures: true},
	core.Siege:          stepMover{dirs: core.OrthogonalDirections, reach: 1, captures: true},
	core.Chariot:        chariotMover{},
	core.Archer:         stepMover{dirs: core.AllDirections, reach: 1, captures: true},
	// Priests only walk onto empty cells; they take pieces by converting them.
	core.Priest: stepMover{dirs: core.AllDirections, reach: 1, captures: false},
}

// MoverFor returns the movement rule of a kind
func MoverFor(kind core.Kind) Mover {
	if m, ok := movers[kind]; ok {
		return m
	}
	return immobile{}
}

// LegalDestinations returns every cell the piece may move to this turn.
// Pieces of the inactive side, and pieces that are not actually on the
// board where they claim to be, have no destinations.
func LegalDestinations(b *core.Board, p core.Piece, active core.Owner) []core.Position {
	if p.Owner != active {
		return nil
	}
	if at, ok := b.Get(p.Pos); !ok || at != p {
		return nil
	}
	return MoverFor(p.Kind).Destinations(b, p)
}

// IsLegalMove reports whether the piece at from may move to to
func IsLegalMove(b *core.Board, from, to core.Position, active core.Owner) bool {
	p, ok := b.Get(from)
	if !ok {
		return false
	}
	for _, d := range LegalDestinations(b, p, active) {
		if d == to {
			return true
		}
	}
	return false
}

// CanSelect reports whether a piece can be picked as a mover by active
func CanSelect(p core.Piece, active core.Owner) bool {
	return p.Owner == active && p.Kind != core.HQ
}
