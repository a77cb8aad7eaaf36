package processor

import (
	"fmt"
	"strings"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/formation"
)

// ActionType represents the type of action
type ActionType int

const (
	ActionMove ActionType = iota
	ActionRangedFire
	ActionVolley
	ActionConvert
	ActionDivisionMove
	ActionChangeFormation
)

func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "move"
	case ActionRangedFire:
		return "ranged_fire"
	case ActionVolley:
		return "volley"
	case ActionConvert:
		return "convert"
	case ActionDivisionMove:
		return "division_move"
	case ActionChangeFormation:
		return "change_formation"
	}
	return fmt.Sprintf("ActionType(%d)", int(t))
}

// Direction of a division move, relative to the acting side
type Direction int8

const (
	Forward Direction = iota
	Back
)

func (d Direction) String() string {
	if d == Back {
		return "back"
	}
	return "forward"
}

// ParseDirection accepts "forward" or "back" in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return Forward, nil
	case "back", "backward":
		return Back, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

// Action represents a player action
type Action interface {
	GetOwner() core.Owner
	GetType() ActionType
	Validate(b *core.Board, active core.Owner) error
}

func validateTurn(owner, active core.Owner) error {
	if owner != active {
		return fmt.Errorf("%w: %s acted during %s's turn", core.ErrNotYourTurn, owner, active)
	}
	return nil
}

func validateCells(b *core.Board, cells ...core.Position) error {
	for _, c := range cells {
		if !b.InBounds(c) {
			return fmt.Errorf("%w: %s", core.ErrOutOfBounds, c)
		}
	}
	return nil
}

// MoveAction moves one piece, capturing whatever enemy stands on To
type MoveAction struct {
	Owner    core.Owner
	From, To core.Position
}

func (m *MoveAction) GetOwner() core.Owner { return m.Owner }
func (m *MoveAction) GetType() ActionType  { return ActionMove }

func (m *MoveAction) Validate(b *core.Board, active core.Owner) error {
	if err := validateTurn(m.Owner, active); err != nil {
		return err
	}
	return validateCells(b, m.From, m.To)
}

// RangedFireAction fires a crossbowman or archer straight ahead
type RangedFireAction struct {
	Owner core.Owner
	From  core.Position
}

func (r *RangedFireAction) GetOwner() core.Owner { return r.Owner }
func (r *RangedFireAction) GetType() ActionType  { return ActionRangedFire }

func (r *RangedFireAction) Validate(b *core.Board, active core.Owner) error {
	if err := validateTurn(r.Owner, active); err != nil {
		return err
	}
	return validateCells(b, r.From)
}

// VolleyAction has an archer drop an area shot on one chosen target
type VolleyAction struct {
	Owner        core.Owner
	From, Target core.Position
}

func (v *VolleyAction) GetOwner() core.Owner { return v.Owner }
func (v *VolleyAction) GetType() ActionType  { return ActionVolley }

func (v *VolleyAction) Validate(b *core.Board, active core.Owner) error {
	if err := validateTurn(v.Owner, active); err != nil {
		return err
	}
	return validateCells(b, v.From, v.Target)
}

// ConvertAction has a priest flip an adjacent enemy to its own side
type ConvertAction struct {
	Owner        core.Owner
	From, Target core.Position
}

func (c *ConvertAction) GetOwner() core.Owner { return c.Owner }
func (c *ConvertAction) GetType() ActionType  { return ActionConvert }

func (c *ConvertAction) Validate(b *core.Board, active core.Owner) error {
	if err := validateTurn(c.Owner, active); err != nil {
		return err
	}
	return validateCells(b, c.From, c.Target)
}

// DivisionMoveAction shifts every eligible piece of a zone one row. Band
// BandNone means the whole depth of the board.
type DivisionMoveAction struct {
	Owner     core.Owner
	Zone      core.Zone
	Direction Direction
	Band      core.Band
}

func (d *DivisionMoveAction) GetOwner() core.Owner { return d.Owner }
func (d *DivisionMoveAction) GetType() ActionType  { return ActionDivisionMove }

func (d *DivisionMoveAction) Validate(_ *core.Board, active core.Owner) error {
	if err := validateTurn(d.Owner, active); err != nil {
		return err
	}
	if !d.Zone.IsDivision() {
		return fmt.Errorf("%w: %s", core.ErrInvalidZone, d.Zone)
	}
	return nil
}

// FormationChangeAction retags one of the owner's zones
type FormationChangeAction struct {
	Owner     core.Owner
	Zone      core.Zone
	Formation formation.Kind
}

func (f *FormationChangeAction) GetOwner() core.Owner { return f.Owner }
func (f *FormationChangeAction) GetType() ActionType  { return ActionChangeFormation }

func (f *FormationChangeAction) Validate(_ *core.Board, active core.Owner) error {
	if err := validateTurn(f.Owner, active); err != nil {
		return err
	}
	if !f.Zone.IsDivision() {
		return fmt.Errorf("%w: %s", core.ErrInvalidZone, f.Zone)
	}
	if !f.Formation.Valid() {
		return fmt.Errorf("%w: %d", core.ErrUnknownFormation, f.Formation)
	}
	return nil
}

// Outcome is the result of executing an action. A failed outcome carries
// the input board and tags untouched.
type Outcome struct {
	Success bool
	Message string
	Board   *core.Board
	Tags    formation.Tags
	Err     error

	// Captured lists the pieces removed from the board.
	Captured []core.Piece
	// Converted lists pieces that changed sides, as they were before.
	Converted []core.Piece
	// Moved counts pieces that changed cells.
	Moved int
	// BonusTurns is the number of extra turns the opponent is owed.
	BonusTurns int
	Effect     formation.Effect
	// Action is the action that produced this outcome when it came through Apply.
	Action Action
}

func failure(b *core.Board, tags formation.Tags, err error, msg string) Outcome {
	return Outcome{Message: msg, Board: b, Tags: tags, Err: err}
}
