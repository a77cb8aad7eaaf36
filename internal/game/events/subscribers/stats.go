package subscribers

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/events"
)

// SideStats tallies what one side did during a game
type SideStats struct {
	Actions          map[string]int
	Rejected         int
	Captures         int
	CapturedValue    int
	Conversions      int
	PiecesLost       int
	FormationChanges int
	HQDamageTaken    int
	Passes           int
}

// MatchStats is a summary of one game
type MatchStats struct {
	GameID    string
	Sides     map[core.Owner]*SideStats
	Finished  bool
	Winner    core.Owner
	HasWinner bool
	FinalTurn int
}

// StatsCollector builds MatchStats from the events of the games it hears
// about. It is safe to read from another goroutine while games run.
type StatsCollector struct {
	id     string
	logger zerolog.Logger

	mu    sync.Mutex
	games map[string]*MatchStats
	order []string
}

// NewStatsCollector creates a new stats collector
func NewStatsCollector(id string, logger zerolog.Logger) *StatsCollector {
	return &StatsCollector{
		id:     id,
		logger: logger.With().Str("component", "stats_collector").Logger(),
		games:  make(map[string]*MatchStats),
	}
}

func (sc *StatsCollector) ID() string { return sc.id }

// InterestedIn skips turn and phase bookkeeping
func (sc *StatsCollector) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeTurnStarted, events.TypeTurnEnded, events.TypeStateTransition:
		return false
	}
	return true
}

func (sc *StatsCollector) HandleEvent(event events.Event) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	stats := sc.game(event.GameID())
	switch e := event.(type) {
	case *events.ActionProcessedEvent:
		stats.Sides[e.Player].Actions[e.ActionType]++
	case *events.ActionRejectedEvent:
		stats.Sides[e.Player].Rejected++
	case *events.PieceCapturedEvent:
		stats.Sides[e.By].Captures++
		stats.Sides[e.By].CapturedValue += e.Piece.Kind.Value()
		stats.Sides[e.Piece.Owner].PiecesLost++
	case *events.PieceConvertedEvent:
		stats.Sides[e.By].Conversions++
		stats.Sides[e.Piece.Owner].PiecesLost++
	case *events.FormationChangedEvent:
		stats.Sides[e.Player].FormationChanges++
	case *events.HQDamagedEvent:
		stats.Sides[e.Owner].HQDamageTaken += e.Damage
	case *events.AIPassedEvent:
		stats.Sides[e.Player].Passes++
	case *events.GameEndedEvent:
		stats.Finished = true
		stats.Winner = e.Winner
		stats.HasWinner = e.HasWinner
		stats.FinalTurn = e.FinalTurn

		winner := "none"
		if e.HasWinner {
			winner = e.Winner.String()
		}
		sc.logger.Info().
			Str("game_id", stats.GameID).
			Str("winner", winner).
			Int("final_turn", e.FinalTurn).
			Int("red_captures", stats.Sides[core.Red].Captures).
			Int("black_captures", stats.Sides[core.Black].Captures).
			Msg("Game ended, match stats finalized")
	}
}

func (sc *StatsCollector) game(gameID string) *MatchStats {
	if stats, ok := sc.games[gameID]; ok {
		return stats
	}
	stats := &MatchStats{GameID: gameID, Sides: make(map[core.Owner]*SideStats, 2)}
	for _, side := range core.Owners {
		stats.Sides[side] = &SideStats{Actions: make(map[string]int)}
	}
	sc.games[gameID] = stats
	sc.order = append(sc.order, gameID)
	return stats
}

// Get returns a copy of the stats for one game
func (sc *StatsCollector) Get(gameID string) (MatchStats, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	stats, ok := sc.games[gameID]
	if !ok {
		return MatchStats{}, false
	}
	return stats.clone(), true
}

// Games returns the IDs of every game seen, oldest first
func (sc *StatsCollector) Games() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	result := make([]string, len(sc.order))
	copy(result, sc.order)
	return result
}

// Clear forgets every game
func (sc *StatsCollector) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.games = make(map[string]*MatchStats)
	sc.order = sc.order[:0]
}

func (m *MatchStats) clone() MatchStats {
	out := *m
	out.Sides = make(map[core.Owner]*SideStats, len(m.Sides))
	for side, s := range m.Sides {
		cp := *s
		cp.Actions = make(map[string]int, len(s.Actions))
		for k, n := range s.Actions {
			cp.Actions[k] = n
		}
		out.Sides[side] = &cp
	}
	return out
}

var _ events.Subscriber = (*StatsCollector)(nil)
