package core

import "fmt"

// Position addresses a board cell by row and column. It doubles as an offset
// when used with Add, Sub and Scale.
type Position struct {
	Row, Col int
}

// NewPosition creates a new position with the given row and column
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// FromIndex creates a position from a row-major board index
func FromIndex(idx, size int) Position {
	return Position{Row: idx / size, Col: idx % size}
}

// IsValid checks if the position is within a size x size board
func (p Position) IsValid(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// ToIndex converts the position to a row-major board index
func (p Position) ToIndex(size int) int {
	return p.Row*size + p.Col
}

// Add returns the sum of this position and an offset
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Sub returns the offset from other to p
func (p Position) Sub(other Position) Position {
	return Position{Row: p.Row - other.Row, Col: p.Col - other.Col}
}

// Scale multiplies an offset by n
func (p Position) Scale(n int) Position {
	return Position{Row: p.Row * n, Col: p.Col * n}
}

// Equal checks if two positions are equal
func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}

// DistanceTo calculates the Manhattan distance to another position
func (p Position) DistanceTo(other Position) int {
	return abs(p.Row-other.Row) + abs(p.Col-other.Col)
}

// ChebyshevDistanceTo is the king-move distance to another position
func (p Position) ChebyshevDistanceTo(other Position) int {
	return max(abs(p.Row-other.Row), abs(p.Col-other.Col))
}

// IsAdjacentTo reports whether other is one of the 8 surrounding cells
func (p Position) IsAdjacentTo(other Position) bool {
	return !p.Equal(other) && p.ChebyshevDistanceTo(other) == 1
}

// Neighbors returns the 8 surrounding positions, orthogonal first
func (p Position) Neighbors() []Position {
	out := make([]Position, 0, len(AllDirections))
	for _, d := range AllDirections {
		out = append(out, p.Add(d))
	}
	return out
}

// ValidNeighbors returns only the neighbors that are on a size x size board
func (p Position) ValidNeighbors(size int) []Position {
	valid := make([]Position, 0, len(AllDirections))
	for _, n := range p.Neighbors() {
		if n.IsValid(size) {
			valid = append(valid, n)
		}
	}
	return valid
}

// String returns a zero-based "(row,col)" representation
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Human returns the one-based "(row,col)" form used in game log messages
func (p Position) Human() string {
	return fmt.Sprintf("(%d,%d)", p.Row+1, p.Col+1)
}

// Unit direction offsets.
var (
	North = Position{Row: -1, Col: 0}
	South = Position{Row: 1, Col: 0}
	West  = Position{Row: 0, Col: -1}
	East  = Position{Row: 0, Col: 1}
)

// OrthogonalDirections are the four rook directions.
var OrthogonalDirections = []Position{North, South, West, East}

// DiagonalDirections are the four bishop directions.
var DiagonalDirections = []Position{
	{Row: -1, Col: -1},
	{Row: -1, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 1},
}

// AllDirections is orthogonal followed by diagonal.
var AllDirections = append(append([]Position{}, OrthogonalDirections...), DiagonalDirections...)

// KnightOffsets are the eight L-shaped cavalry jumps.
var KnightOffsets = []Position{
	{Row: -2, Col: -1},
	{Row: -2, Col: 1},
	{Row: -1, Col: -2},
	{Row: -1, Col: 2},
	{Row: 1, Col: -2},
	{Row: 1, Col: 2},
	{Row: 2, Col: -1},
	{Row: 2, Col: 1},
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
