package events

import (
	"time"

	"github.com/zhanguoqi/engine/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeGameEnded        = "game.ended"
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeActionProcessed  = "action.processed"
	TypeActionRejected   = "action.rejected"
	TypePieceCaptured    = "piece.captured"
	TypePieceConverted   = "piece.converted"
	TypeFormationChanged = "formation.changed"
	TypeHQDamaged        = "hq.damaged"
	TypeAIPassed         = "ai.passed"
	TypeStateTransition  = "state.transition"
)

func base(eventType, gameID string) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now(), Game: gameID}
}

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	BoardSize   int
	FirstPlayer core.Owner
	RedPieces   int
	BlackPieces int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, size int, first core.Owner, red, black int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:   base(TypeGameStarted, gameID),
		BoardSize:   size,
		FirstPlayer: first,
		RedPieces:   red,
		BlackPieces: black,
	}
}

// GameEndedEvent is published when a game ends. HasWinner is false when the
// game stopped at the turn limit.
type GameEndedEvent struct {
	BaseEvent
	Winner    core.Owner
	HasWinner bool
	Duration  time.Duration
	FinalTurn int
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner core.Owner, hasWinner bool, duration time.Duration, finalTurn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: base(TypeGameEnded, gameID),
		Winner:    winner,
		HasWinner: hasWinner,
		Duration:  duration,
		FinalTurn: finalTurn,
	}
}

// TurnStartedEvent is published when control passes to a player
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
	Player     core.Owner
	BonusTurns int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn int, player core.Owner, bonus int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  base(TypeTurnStarted, gameID),
		TurnNumber: turn,
		Player:     player,
		BonusTurns: bonus,
	}
}

// TurnEndedEvent is published at the end of each turn
type TurnEndedEvent struct {
	BaseEvent
	TurnNumber int
	Player     core.Owner
	// BonusTurn is set when the same player keeps control.
	BonusTurn bool
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(gameID string, turn int, player core.Owner, bonus bool) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:  base(TypeTurnEnded, gameID),
		TurnNumber: turn,
		Player:     player,
		BonusTurn:  bonus,
	}
}

// ActionProcessedEvent is published after an action is successfully applied
type ActionProcessedEvent struct {
	BaseEvent
	Player     core.Owner
	ActionType string
	Message    string
	Turn       int
}

// NewActionProcessedEvent creates a new ActionProcessedEvent
func NewActionProcessedEvent(gameID string, player core.Owner, actionType, message string, turn int) *ActionProcessedEvent {
	return &ActionProcessedEvent{
		BaseEvent:  base(TypeActionProcessed, gameID),
		Player:     player,
		ActionType: actionType,
		Message:    message,
		Turn:       turn,
	}
}

// ActionRejectedEvent is published when an action fails validation
type ActionRejectedEvent struct {
	BaseEvent
	Player     core.Owner
	ActionType string
	Reason     string
	Turn       int
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(gameID string, player core.Owner, actionType, reason string, turn int) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent:  base(TypeActionRejected, gameID),
		Player:     player,
		ActionType: actionType,
		Reason:     reason,
		Turn:       turn,
	}
}

// PieceCapturedEvent is published for every piece removed from the board
type PieceCapturedEvent struct {
	BaseEvent
	By    core.Owner
	Piece core.Piece
	Turn  int
}

// NewPieceCapturedEvent creates a new PieceCapturedEvent
func NewPieceCapturedEvent(gameID string, by core.Owner, piece core.Piece, turn int) *PieceCapturedEvent {
	return &PieceCapturedEvent{
		BaseEvent: base(TypePieceCaptured, gameID),
		By:        by,
		Piece:     piece,
		Turn:      turn,
	}
}

// PieceConvertedEvent is published when a priest changes a piece's owner.
// Piece holds the state before conversion.
type PieceConvertedEvent struct {
	BaseEvent
	By    core.Owner
	Piece core.Piece
	Turn  int
}

// NewPieceConvertedEvent creates a new PieceConvertedEvent
func NewPieceConvertedEvent(gameID string, by core.Owner, piece core.Piece, turn int) *PieceConvertedEvent {
	return &PieceConvertedEvent{
		BaseEvent: base(TypePieceConverted, gameID),
		By:        by,
		Piece:     piece,
		Turn:      turn,
	}
}

// FormationChangedEvent is published when a side adopts a new formation
type FormationChangedEvent struct {
	BaseEvent
	Player     core.Owner
	Zone       core.Zone
	Formation  string
	BonusTurns int
}

// NewFormationChangedEvent creates a new FormationChangedEvent
func NewFormationChangedEvent(gameID string, player core.Owner, zone core.Zone, formation string, bonus int) *FormationChangedEvent {
	return &FormationChangedEvent{
		BaseEvent:  base(TypeFormationChanged, gameID),
		Player:     player,
		Zone:       zone,
		Formation:  formation,
		BonusTurns: bonus,
	}
}

// HQDamagedEvent is published when enemies adjacent to a General wear it
// down at the start of its owner's turn. Health is the General's after.
type HQDamagedEvent struct {
	BaseEvent
	Owner  core.Owner
	Damage int
	Health int
}

// NewHQDamagedEvent creates a new HQDamagedEvent
func NewHQDamagedEvent(gameID string, owner core.Owner, damage, health int) *HQDamagedEvent {
	return &HQDamagedEvent{
		BaseEvent: base(TypeHQDamaged, gameID),
		Owner:     owner,
		Damage:    damage,
		Health:    health,
	}
}

// AIPassedEvent is published when an AI player has no valid action
type AIPassedEvent struct {
	BaseEvent
	Player core.Owner
	Turn   int
}

// NewAIPassedEvent creates a new AIPassedEvent
func NewAIPassedEvent(gameID string, player core.Owner, turn int) *AIPassedEvent {
	return &AIPassedEvent{
		BaseEvent: base(TypeAIPassed, gameID),
		Player:    player,
		Turn:      turn,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: base(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
