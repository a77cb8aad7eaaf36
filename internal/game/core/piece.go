package core

import (
	"fmt"
	"strings"
)

// Owner is one of the two sides.
type Owner int8

const (
	Red Owner = iota
	Black
)

// Owners lists both sides in a stable order.
var Owners = []Owner{Red, Black}

func (o Owner) String() string {
	switch o {
	case Red:
		return "Red"
	case Black:
		return "Black"
	default:
		return fmt.Sprintf("Owner(%d)", o)
	}
}

// Opponent returns the other side
func (o Owner) Opponent() Owner {
	if o == Red {
		return Black
	}
	return Red
}

// Forward is the row delta pointing at the opposing home row. Red starts at
// the bottom of the board and advances toward row 0.
func (o Owner) Forward() int {
	if o == Red {
		return -1
	}
	return 1
}

// ParseOwner accepts "red" or "black" in any case
func ParseOwner(s string) (Owner, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "black":
		return Black, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Kind is the piece type.
type Kind uint8

const (
	General Kind = iota
	HQ
	Vanguard
	Noble
	LeftCommander
	RightCommander
	Advisor
	Infantry
	Cavalry
	Crossbowman
	Siege
	Chariot
	Archer
	Priest
	numKinds
)

type kindInfo struct {
	code  byte
	name  string
	value int
}

var kindTable = [numKinds]kindInfo{
	General:        {'G', "General", 10000},
	HQ:             {'H', "HQ", 10000},
	Vanguard:       {'K', "Vanguard", 900},
	Noble:          {'N', "Noble (Center)", 800},
	LeftCommander:  {'L', "Commander (Left)", 800},
	RightCommander: {'R', "Commander (Right)", 800},
	Advisor:        {'A', "Advisor", 200},
	Infantry:       {'I', "Infantry", 100},
	Cavalry:        {'V', "Cavalry", 300},
	Crossbowman:    {'X', "Crossbowman", 250},
	Siege:          {'S', "Siege", 350},
	Chariot:        {'T', "Chariot", 500},
	Archer:         {'B', "Archer", 300},
	Priest:         {'P', "Priest", 400},
}

// Kinds lists every piece kind.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool { return k < numKinds }

// Code is the one-letter layout code (always upper case)
func (k Kind) Code() byte {
	if !k.Valid() {
		return '?'
	}
	return kindTable[k].code
}

// Name is the display name used in log messages
func (k Kind) Name() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindTable[k].name
}

func (k Kind) String() string { return k.Name() }

// Value is the material value used by the AI
func (k Kind) Value() int {
	if !k.Valid() {
		return 100
	}
	return kindTable[k].value
}

// IsCommander covers General, HQ, Vanguard and the three wing commanders.
func (k Kind) IsCommander() bool {
	switch k {
	case General, HQ, Vanguard, Noble, LeftCommander, RightCommander:
		return true
	}
	return false
}

// IsRanged covers crossbowmen and archers
func (k Kind) IsRanged() bool { return k == Crossbowman || k == Archer }

// IsLeader is true for the two pieces whose loss ends the game
func (k Kind) IsLeader() bool { return k == General || k == HQ }

// DefaultHealth is 3 for General and HQ, 1 otherwise
func (k Kind) DefaultHealth() int {
	if k.IsLeader() {
		return 3
	}
	return 1
}

// ParseKind converts a one-letter code (either case) into a Kind
func ParseKind(code string) (Kind, error) {
	if len(code) != 1 {
		return 0, fmt.Errorf("unknown piece code %q", code)
	}
	c := strings.ToUpper(code)[0]
	for k := Kind(0); k < numKinds; k++ {
		if kindTable[k].code == c {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown piece code %q", code)
}

// Piece is an immutable record once placed on a Board; boards share piece
// records between snapshots and replace them instead of editing in place.
type Piece struct {
	Kind  Kind
	Owner Owner
	Pos   Position
	// Reloading is reserved for rate-limited weapons. Ranged units currently
	// fire every turn so nothing sets it.
	Reloading bool
	Health    int
}

// NewPiece creates a piece with its kind's default health
func NewPiece(kind Kind, owner Owner, pos Position) Piece {
	return Piece{Kind: kind, Owner: owner, Pos: pos, Health: kind.DefaultHealth()}
}

// Symbol is the code in upper case for Red and lower case for Black
func (p Piece) Symbol() string {
	s := string(p.Kind.Code())
	if p.Owner == Black {
		return strings.ToLower(s)
	}
	return s
}

// IsEnemyOf reports whether the two pieces belong to different sides
func (p Piece) IsEnemyOf(other Piece) bool { return p.Owner != other.Owner }

func (p Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Owner, p.Kind.Name(), p.Pos)
}
