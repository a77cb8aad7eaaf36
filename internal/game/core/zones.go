package core

import (
	"fmt"
	"slices"
	"strings"
)

// Zone is a horizontal third of the board.
type Zone int8

const (
	ZoneLeft Zone = iota
	ZoneCenter
	ZoneRight
	// ZoneGap marks the impassable-to-formation gap columns and any column
	// that belongs to no division.
	ZoneGap
)

// Zones lists the three divisions.
var Zones = []Zone{ZoneLeft, ZoneCenter, ZoneRight}

func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "left"
	case ZoneCenter:
		return "center"
	case ZoneRight:
		return "right"
	case ZoneGap:
		return "gap"
	default:
		return fmt.Sprintf("Zone(%d)", z)
	}
}

// IsDivision is true for left, center and right
func (z Zone) IsDivision() bool { return z >= ZoneLeft && z <= ZoneRight }

// Commander is the wing commander that leads the zone.
func (z Zone) Commander() (Kind, bool) {
	switch z {
	case ZoneLeft:
		return LeftCommander, true
	case ZoneCenter:
		return Noble, true
	case ZoneRight:
		return RightCommander, true
	}
	return 0, false
}

// ParseZone accepts left, center or right
func ParseZone(s string) (Zone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return ZoneLeft, nil
	case "center", "centre":
		return ZoneCenter, nil
	case "right":
		return ZoneRight, nil
	}
	return ZoneGap, fmt.Errorf("%w: %q", ErrInvalidZone, s)
}

// Band is a depth subdivision of a side's own territory.
type Band int8

const (
	BandNone Band = iota
	BandFront
	BandMain
	BandRear
)

// Bands lists the three depth bands.
var Bands = []Band{BandFront, BandMain, BandRear}

func (b Band) String() string {
	switch b {
	case BandFront:
		return "front"
	case BandMain:
		return "main"
	case BandRear:
		return "rear"
	default:
		return "none"
	}
}

// ParseBand accepts front, main, rear; the empty string is BandNone
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return BandNone, nil
	case "front":
		return BandFront, nil
	case "main":
		return BandMain, nil
	case "rear":
		return BandRear, nil
	}
	return BandNone, fmt.Errorf("%w: unknown band %q", ErrInvalidZone, s)
}

// Span is an inclusive index range.
type Span struct {
	Start, End int
}

// Contains reports whether i lies in the span
func (s Span) Contains(i int) bool { return i >= s.Start && i <= s.End }

// Layout is the static description of a board: its size, terrain
// partitions and starting roster. It is shared read-only by every board
// derived from it.
type Layout struct {
	Size          int
	RiverRows     []int
	ContestedCity Position
	Gaps          []int
	// Divisions is indexed by ZoneLeft, ZoneCenter, ZoneRight.
	Divisions [3]Span
	// Bands is indexed by Owner then BandFront-1, BandMain-1, BandRear-1.
	Bands  [2][3]Span
	Pieces []Piece
}

// Validate checks the layout is playable
func (l *Layout) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	if l.Size <= 0 {
		return fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidLayout, l.Size)
	}
	if len(l.RiverRows) == 0 {
		return fmt.Errorf("%w: river rows are required", ErrInvalidLayout)
	}
	for _, r := range l.RiverRows {
		if r < 0 || r >= l.Size {
			return fmt.Errorf("%w: river row %d out of range", ErrInvalidLayout, r)
		}
	}
	if !l.ContestedCity.IsValid(l.Size) || !l.IsRiver(l.ContestedCity.Row) {
		return fmt.Errorf("%w: contested city %s must lie in the river", ErrInvalidLayout, l.ContestedCity)
	}
	for _, g := range l.Gaps {
		if g < 0 || g >= l.Size {
			return fmt.Errorf("%w: gap column %d out of range", ErrInvalidLayout, g)
		}
	}
	for i, s := range l.Divisions {
		if s.Start < 0 || s.End >= l.Size || s.Start > s.End {
			return fmt.Errorf("%w: %s zone span %d-%d out of range", ErrInvalidLayout, Zone(i), s.Start, s.End)
		}
		for _, g := range l.Gaps {
			if s.Contains(g) {
				return fmt.Errorf("%w: %s zone overlaps gap column %d", ErrInvalidLayout, Zone(i), g)
			}
		}
		if i > 0 && s.Start <= l.Divisions[i-1].End {
			return fmt.Errorf("%w: %s zone overlaps %s zone", ErrInvalidLayout, Zone(i), Zone(i-1))
		}
	}
	for _, o := range Owners {
		if err := l.validateBands(o); err != nil {
			return err
		}
	}

	seen := make(map[Position]Piece, len(l.Pieces))
	var leaders [2][2]bool
	for _, p := range l.Pieces {
		if !p.Kind.Valid() {
			return fmt.Errorf("%w: unknown piece kind %d", ErrInvalidLayout, p.Kind)
		}
		if !p.Pos.IsValid(l.Size) {
			return fmt.Errorf("%w: %s placed off the board", ErrInvalidLayout, p)
		}
		if prev, ok := seen[p.Pos]; ok {
			return fmt.Errorf("%w: %s and %s share a cell", ErrInvalidLayout, prev, p)
		}
		seen[p.Pos] = p
		switch p.Kind {
		case General:
			leaders[p.Owner][0] = true
		case HQ:
			leaders[p.Owner][1] = true
		}
	}
	for _, o := range Owners {
		if !leaders[o][0] || !leaders[o][1] {
			return fmt.Errorf("%w: %s needs both a General and an HQ", ErrInvalidLayout, o)
		}
	}
	return nil
}

// IsRiver reports whether row is part of the neutral river band
func (l *Layout) IsRiver(row int) bool { return slices.Contains(l.RiverRows, row) }

// IsGap reports whether col is an impassable-to-formation gap column
func (l *Layout) IsGap(col int) bool { return slices.Contains(l.Gaps, col) }

// IsContestedCity reports whether pos is the contested city cell
func (l *Layout) IsContestedCity(pos Position) bool { return l.ContestedCity.Equal(pos) }

// ZoneOf maps a column to its division
func (l *Layout) ZoneOf(col int) Zone {
	if l.IsGap(col) {
		return ZoneGap
	}
	for i, s := range l.Divisions {
		if s.Contains(col) {
			return Zone(i)
		}
	}
	return ZoneGap
}

// ZoneSpan returns the column range of a division
func (l *Layout) ZoneSpan(z Zone) (Span, bool) {
	if !z.IsDivision() {
		return Span{}, false
	}
	return l.Divisions[z], true
}

// validateBands checks that owner's three bands sit inside its home
// territory without sharing a row.
func (l *Layout) validateBands(o Owner) error {
	bands := l.Bands[o]
	for i, s := range bands {
		if s.Start < 0 || s.End >= l.Size || s.Start > s.End {
			return fmt.Errorf("%w: %s %s band %d-%d out of range", ErrInvalidLayout, o, Band(i+1), s.Start, s.End)
		}
		if !l.IsOwnSide(s.Start, o) || !l.IsOwnSide(s.End, o) {
			return fmt.Errorf("%w: %s %s band %d-%d outside home territory", ErrInvalidLayout, o, Band(i+1), s.Start, s.End)
		}
		for j := range i {
			if s.Start <= bands[j].End && bands[j].Start <= s.End {
				return fmt.Errorf("%w: %s %s band overlaps %s band", ErrInvalidLayout, o, Band(i+1), Band(j+1))
			}
		}
	}
	return nil
}

// BandSpan returns the row range of one of owner's depth bands
func (l *Layout) BandSpan(owner Owner, b Band) (Span, bool) {
	if b == BandNone {
		return Span{}, false
	}
	return l.Bands[owner][b-1], true
}

// VerticalZoneOf returns the depth band of row for owner, or BandNone when
// the row is in the river or enemy territory.
func (l *Layout) VerticalZoneOf(row int, owner Owner) Band {
	for i, s := range l.Bands[owner] {
		if s.Contains(row) {
			return Band(i + 1)
		}
	}
	return BandNone
}

// RiverBounds returns the first and last river rows
func (l *Layout) RiverBounds() (int, int) {
	return slices.Min(l.RiverRows), slices.Max(l.RiverRows)
}

// IsOwnSide reports whether row lies in owner's home territory, the rows
// on owner's side of the river.
func (l *Layout) IsOwnSide(row int, owner Owner) bool {
	lo, hi := l.RiverBounds()
	if owner == Red {
		return row > hi
	}
	return row < lo
}

// IsEnemySide reports whether row lies beyond the river from owner's home
func (l *Layout) IsEnemySide(row int, owner Owner) bool {
	return l.IsOwnSide(row, owner.Opponent())
}

// FrontLine is the far edge of the river as seen from owner's home, where
// the two armies meet.
func (l *Layout) FrontLine(owner Owner) int {
	lo, hi := l.RiverBounds()
	if owner == Red {
		return lo
	}
	return hi
}

// CenterCol is the middle column of the board
func (l *Layout) CenterCol() int { return l.Size / 2 }
