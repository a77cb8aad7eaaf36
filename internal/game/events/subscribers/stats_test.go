package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/events"
	"github.com/zhanguoqi/engine/internal/game/events/subscribers"
)

func TestStatsCollector_Interest(t *testing.T) {
	sc := subscribers.NewStatsCollector("stats", zerolog.Nop())

	assert.Equal(t, "stats", sc.ID())
	assert.True(t, sc.InterestedIn(events.TypePieceCaptured))
	assert.True(t, sc.InterestedIn(events.TypeGameEnded))
	assert.False(t, sc.InterestedIn(events.TypeTurnStarted))
	assert.False(t, sc.InterestedIn(events.TypeStateTransition))
}

func TestStatsCollector_Tallies(t *testing.T) {
	var buf bytes.Buffer
	sc := subscribers.NewStatsCollector("stats", zerolog.New(&buf))
	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(sc)

	const id = "match-1"
	blackInfantry := core.NewPiece(core.Infantry, core.Black, core.NewPosition(8, 3))
	redCavalry := core.NewPiece(core.Cavalry, core.Red, core.NewPosition(14, 5))

	bus.Publish(events.NewActionProcessedEvent(id, core.Red, "move", "Moved I to (9,4)", 1))
	bus.Publish(events.NewActionProcessedEvent(id, core.Red, "move", "Moved I to (10,4)", 3))
	bus.Publish(events.NewActionProcessedEvent(id, core.Black, "ranged_fire", "Crossbow fires", 2))
	bus.Publish(events.NewActionRejectedEvent(id, core.Black, "convert", "no valid target", 2))
	bus.Publish(events.NewPieceCapturedEvent(id, core.Red, blackInfantry, 3))
	bus.Publish(events.NewPieceConvertedEvent(id, core.Black, redCavalry, 4))
	bus.Publish(events.NewFormationChangedEvent(id, core.Black, core.ZoneCenter, "Wedge", 2))
	bus.Publish(events.NewHQDamagedEvent(id, core.Red, 4, 2))
	bus.Publish(events.NewAIPassedEvent(id, core.Black, 5))
	bus.Publish(events.NewTurnStartedEvent(id, 6, core.Red, 0))

	stats, ok := sc.Get(id)
	require.True(t, ok)
	assert.False(t, stats.Finished)

	red, black := stats.Sides[core.Red], stats.Sides[core.Black]
	assert.Equal(t, map[string]int{"move": 2}, red.Actions)
	assert.Equal(t, map[string]int{"ranged_fire": 1}, black.Actions)
	assert.Equal(t, 1, black.Rejected)
	assert.Equal(t, 1, red.Captures)
	assert.Equal(t, core.Infantry.Value(), red.CapturedValue)
	assert.Equal(t, 1, black.Conversions)
	assert.Equal(t, 1, red.PiecesLost)
	assert.Equal(t, 1, black.PiecesLost)
	assert.Equal(t, 1, black.FormationChanges)
	assert.Equal(t, 4, red.HQDamageTaken)
	assert.Equal(t, 1, black.Passes)

	bus.Publish(events.NewGameEndedEvent(id, core.Red, true, time.Minute, 6))

	stats, _ = sc.Get(id)
	assert.True(t, stats.Finished)
	assert.True(t, stats.HasWinner)
	assert.Equal(t, core.Red, stats.Winner)
	assert.Equal(t, 6, stats.FinalTurn)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Game ended, match stats finalized", line["message"])
	assert.Equal(t, "Red", line["winner"])
	assert.Equal(t, float64(1), line["red_captures"])
}

func TestStatsCollector_GetReturnsCopy(t *testing.T) {
	sc := subscribers.NewStatsCollector("stats", zerolog.Nop())
	sc.HandleEvent(events.NewActionProcessedEvent("g", core.Red, "move", "", 1))

	stats, _ := sc.Get("g")
	stats.Sides[core.Red].Actions["move"] = 99
	stats.Sides[core.Red].Captures = 7

	again, _ := sc.Get("g")
	assert.Equal(t, 1, again.Sides[core.Red].Actions["move"])
	assert.Equal(t, 0, again.Sides[core.Red].Captures)
}

func TestStatsCollector_GamesAndClear(t *testing.T) {
	sc := subscribers.NewStatsCollector("stats", zerolog.Nop())
	sc.HandleEvent(events.NewAIPassedEvent("first", core.Red, 1))
	sc.HandleEvent(events.NewAIPassedEvent("second", core.Black, 1))
	sc.HandleEvent(events.NewAIPassedEvent("first", core.Black, 2))

	assert.Equal(t, []string{"first", "second"}, sc.Games())

	_, ok := sc.Get("missing")
	assert.False(t, ok)

	sc.Clear()
	assert.Empty(t, sc.Games())
	_, ok = sc.Get("first")
	assert.False(t, ok)
}

func TestStatsCollector_Draw(t *testing.T) {
	var buf bytes.Buffer
	sc := subscribers.NewStatsCollector("stats", zerolog.New(&buf))
	sc.HandleEvent(events.NewGameEndedEvent("g", 0, false, time.Second, 401))

	stats, ok := sc.Get("g")
	require.True(t, ok)
	assert.True(t, stats.Finished)
	assert.False(t, stats.HasWinner)
	assert.Contains(t, buf.String(), `"winner":"none"`)
}
