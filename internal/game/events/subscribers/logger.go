package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil means every type
	devMode         bool            // adds the raw event as JSON
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (empty means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs one event with the fields specific to its type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.level())
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("board_size", e.BoardSize).
			Str("first_player", e.FirstPlayer.String()).
			Int("red_pieces", e.RedPieces).
			Int("black_pieces", e.BlackPieces)

	case *events.GameEndedEvent:
		if e.HasWinner {
			logEvent.Str("winner", e.Winner.String())
		}
		logEvent.
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("player", e.Player.String()).
			Int("bonus_turns", e.BonusTurns)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("player", e.Player.String()).
			Bool("bonus_turn", e.BonusTurn)

	case *events.ActionProcessedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("action_type", e.ActionType).
			Str("result", e.Message).
			Int("turn", e.Turn)

	case *events.ActionRejectedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("action_type", e.ActionType).
			Str("reason", e.Reason).
			Int("turn", e.Turn)

	case *events.PieceCapturedEvent:
		logEvent.
			Str("by", e.By.String()).
			Str("piece", e.Piece.Kind.Name()).
			Str("owner", e.Piece.Owner.String()).
			Str("position", e.Piece.Pos.Human())

	case *events.PieceConvertedEvent:
		logEvent.
			Str("by", e.By.String()).
			Str("piece", e.Piece.Kind.Name()).
			Str("position", e.Piece.Pos.Human())

	case *events.FormationChangedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("zone", e.Zone.String()).
			Str("formation", e.Formation).
			Int("bonus_turns", e.BonusTurns)

	case *events.HQDamagedEvent:
		logEvent.
			Str("owner", e.Owner.String()).
			Int("damage", e.Damage).
			Int("health", e.Health)

	case *events.AIPassedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Int("turn", e.Turn)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}

func (ls *LoggerSubscriber) level() zerolog.Level {
	switch ls.logLevel {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return ls.logLevel
	default:
		return zerolog.InfoLevel
	}
}
