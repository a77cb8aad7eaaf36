// Package formation holds the troop formation tables: the geometric
// pattern of each formation, the rock-paper-scissors advantages between
// them and the combat modifier the action processor consults before a
// capture. Nothing here touches a board.
package formation

import (
	"fmt"
	"strings"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// Kind is one of the seven named formations
type Kind int8

// None marks the absence of a formation, e.g. a piece standing in a gap column.
const None Kind = -1

const (
	Line Kind = iota
	Column
	Wedge
	ShieldWall
	HollowSquare
	Echelon
	Skirmish
	numKinds
)

// Info is the static description of a formation. Pattern offsets are
// (rows toward the enemy, columns) relative to the commander at (0,0).
type Info struct {
	Key         string
	Name        string
	Description string
	MinPieces   int
	Pattern     []core.Position
	Symbol      string
}

func off(r, c int) core.Position { return core.Position{Row: r, Col: c} }

var table = [numKinds]Info{
	Line: {
		Key: "line", Name: "Line", Description: "Wide front, good for holding territory",
		MinPieces: 3, Symbol: "▬▬▬",
		Pattern: []core.Position{
			off(0, -3), off(0, -2), off(0, -1), off(0, 0), off(0, 1), off(0, 2), off(0, 3),
			off(-1, -2), off(-1, 0), off(-1, 2),
		},
	},
	Column: {
		Key: "column", Name: "Column", Description: "Deep and narrow, punches through enemy lines",
		MinPieces: 3, Symbol: "║",
		Pattern: []core.Position{
			off(3, 0), off(2, 0), off(1, 0), off(0, 0), off(-1, 0), off(-2, 0), off(-3, 0),
			off(2, -1), off(2, 1), off(1, -1), off(1, 1),
		},
	},
	Wedge: {
		Key: "wedge", Name: "Wedge", Description: "Spearhead formation, breaks enemy formations",
		MinPieces: 4, Symbol: "▲",
		Pattern: []core.Position{
			off(3, 0),
			off(2, -1), off(2, 1),
			off(1, -2), off(1, 0), off(1, 2),
			off(0, -3), off(0, -1), off(0, 0), off(0, 1), off(0, 3),
			off(-1, -2), off(-1, 0), off(-1, 2),
		},
	},
	ShieldWall: {
		Key: "shield_wall", Name: "Shield Wall", Description: "Protects commander, requires 2+ attackers to break",
		MinPieces: 5, Symbol: "█",
		Pattern: []core.Position{
			off(1, -1), off(1, 0), off(1, 1),
			off(0, -1), off(0, 0), off(0, 1),
			off(-1, -1), off(-1, 0), off(-1, 1),
			off(1, -2), off(1, 2), off(0, -2), off(0, 2), off(-1, -2), off(-1, 2),
		},
	},
	HollowSquare: {
		Key: "hollow_square", Name: "Hollow Square", Description: "All sides defended, protects ranged units. Anti-cavalry",
		MinPieces: 8, Symbol: "□",
		Pattern: []core.Position{
			off(2, -2), off(2, -1), off(2, 0), off(2, 1), off(2, 2),
			off(1, -2), off(1, 2),
			off(0, -2), off(0, 0), off(0, 2),
			off(-1, -2), off(-1, 2),
			off(-2, -2), off(-2, -1), off(-2, 0), off(-2, 1), off(-2, 2),
			off(1, -1), off(1, 0), off(1, 1), off(0, -1), off(0, 1), off(-1, -1), off(-1, 0), off(-1, 1),
		},
	},
	Echelon: {
		Key: "echelon", Name: "Echelon", Description: "Diagonal formation, coordinates with allies",
		MinPieces: 3, Symbol: "╱",
		Pattern: []core.Position{
			off(3, -3), off(2, -2), off(1, -1), off(0, 0), off(-1, 1), off(-2, 2), off(-3, 3),
			off(2, -3), off(3, -2), off(1, -2), off(2, -1), off(0, -1), off(1, 0),
		},
	},
	Skirmish: {
		Key: "skirmish", Name: "Skirmish", Description: "Spread out, immune to ranged fire",
		MinPieces: 3, Symbol: "∴",
		Pattern: []core.Position{
			off(4, 0),
			off(2, -2), off(2, 2),
			off(0, -4), off(0, 0), off(0, 4),
			off(-2, -2), off(-2, 2),
			off(-4, 0),
			off(3, -1), off(3, 1), off(1, -3), off(1, -1), off(1, 1), off(1, 3),
		},
	},
}

// Kinds lists every formation in table order
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Line; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k names a formation
func (k Kind) Valid() bool { return k >= Line && k < numKinds }

// Info returns the static description of k. It panics on None.
func (k Kind) Info() Info {
	if !k.Valid() {
		panic(fmt.Sprintf("formation: no info for %d", k))
	}
	return table[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return "none"
	}
	return table[k].Key
}

// MinPieces is the number of friendly pieces a zone needs to adopt k
func (k Kind) MinPieces() int { return k.Info().MinPieces }

// Parse accepts the snake_case key or the display name of a formation
func Parse(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for k := Line; k < numKinds; k++ {
		if norm == table[k].Key || norm == strings.ToLower(table[k].Name) {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", core.ErrUnknownFormation, s)
}

// Positions projects the first n pattern cells of k around anchor for
// owner, flipping rows so that positive offsets point at the enemy. Cells
// that fall off a size x size board are dropped.
func Positions(anchor core.Position, k Kind, n int, owner core.Owner, size int) []core.Position {
	pattern := k.Info().Pattern
	n = min(n, len(pattern))
	dir := owner.Forward()
	out := make([]core.Position, 0, n)
	for _, o := range pattern[:n] {
		p := core.Position{Row: anchor.Row + o.Row*dir, Col: anchor.Col + o.Col}
		if p.IsValid(size) {
			out = append(out, p)
		}
	}
	return out
}
