package core

import "errors"

var (
	ErrOutOfBounds         = errors.New("position out of bounds")
	ErrNoPiece             = errors.New("no piece at source")
	ErrNotYourTurn         = errors.New("piece does not belong to the active player")
	ErrIllegalDestination  = errors.New("destination is not a legal move")
	ErrPriestCannotCapture = errors.New("priests cannot capture - use Convert ability")
	ErrNoTarget            = errors.New("no valid target")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrNoCommander         = errors.New("no commander in zone")
	ErrNothingMoved        = errors.New("no pieces could move")
	ErrFormationBlocked    = errors.New("attack blocked by formation")
	ErrInvalidZone         = errors.New("invalid zone")
	ErrUnknownFormation    = errors.New("unknown formation")
	ErrTooFewPieces        = errors.New("not enough pieces for formation")
	ErrGameOver            = errors.New("game is over")
	ErrInvalidLayout       = errors.New("invalid board layout")
)
