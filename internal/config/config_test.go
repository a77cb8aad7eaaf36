package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanguoqi/engine/internal/game/ai"
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/testutil"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "config.yaml", `
game:
  difficulty: expert
  human_side: red
  max_turns: 300
  hq_damage: false
ai:
  normal_best_chance: 0.5
logging:
  level: debug
  format: json
`)
	resetGlobals()

	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, "expert", c.Game.Difficulty)
	assert.Equal(t, "red", c.Game.HumanSide)
	assert.Equal(t, 300, c.Game.MaxTurns)
	assert.False(t, c.Game.HQDamage)
	assert.Equal(t, 0.5, c.AI.NormalBestChance)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, configFile, ConfigFilePath())

	// untouched keys keep their defaults
	assert.True(t, c.Game.EnforceFormations)
	assert.Equal(t, 2, c.Game.FormationBonusTurns)
	assert.Equal(t, 20, c.AI.SiegeTurnThreshold)
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, "", c.Game.LayoutFile)
	assert.Equal(t, 0, c.Game.Generate.Size)
	assert.Equal(t, "normal", c.Game.Difficulty)
	assert.Equal(t, "none", c.Game.HumanSide)
	assert.Equal(t, "black", c.Game.FirstPlayer)
	assert.True(t, c.Game.EnforceFormations)
	assert.True(t, c.Game.HQDamage)
	assert.Equal(t, int64(0), c.Game.Seed)
	assert.Equal(t, 0.7, c.AI.NormalBestChance)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInit_MalformedFile(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "config.yaml", "game: [unclosed\n")
	resetGlobals()

	err := Init(configFile)
	assert.Error(t, err)
}

func TestInit_InvalidValues(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "config.yaml", "game:\n  difficulty: impossible\n")
	resetGlobals()

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()
	t.Setenv("ZHQ_GAME_MAX_TURNS", "120")
	t.Setenv("ZHQ_LOGGING_LEVEL", "warn")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 120, c.Game.MaxTurns)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	require.NoError(t, Set("game.difficulty", "easy"))
	require.NoError(t, Set("game.generate.size", 19))

	c := Get()
	assert.Equal(t, "easy", c.Game.Difficulty)
	assert.Equal(t, 19, c.Game.Generate.Size)
	assert.Equal(t, "easy", GetViper().GetString("game.difficulty"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := writeFile(t, tmpDir, "config.yaml", `
game:
  difficulty: easy
  max_turns: 100
`)
	writeFile(t, tmpDir, "config.prod.yaml", `
game:
  difficulty: expert
logging:
  format: json
`)

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))
	require.NoError(t, LoadEnvironmentConfig("staging"), "missing overlay is ignored")

	c := Get()
	assert.Equal(t, "expert", c.Game.Difficulty)
	assert.Equal(t, 100, c.Game.MaxTurns)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Game: GameConfig{
				Difficulty:          "normal",
				HumanSide:           "none",
				FirstPlayer:         "black",
				FormationBonusTurns: 2,
			},
			AI:      AIConfig{SiegeTurnThreshold: 20, NormalBestChance: 0.7},
			Logging: LoggingConfig{Level: "info", Format: "console"},
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "brutal" }, "game.difficulty"},
		{"unknown human side", func(c *Config) { c.Game.HumanSide = "green" }, "game.human_side"},
		{"unknown first player", func(c *Config) { c.Game.FirstPlayer = "white" }, "game.first_player"},
		{"negative bonus turns", func(c *Config) { c.Game.FormationBonusTurns = -1 }, "game.formation_bonus_turns"},
		{"negative max turns", func(c *Config) { c.Game.MaxTurns = -5 }, "game.max_turns"},
		{"even generated size", func(c *Config) { c.Game.Generate.Size = 24 }, "game.generate.size"},
		{"small generated size", func(c *Config) { c.Game.Generate.Size = 9 }, "game.generate.size"},
		{"negative siege threshold", func(c *Config) { c.AI.SiegeTurnThreshold = -1 }, "ai.siege_turn_threshold"},
		{"best chance above one", func(c *Config) { c.AI.NormalBestChance = 1.5 }, "ai.normal_best_chance"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSessionConfig(t *testing.T) {
	layout := testutil.Layout()
	rng := testutil.NewTestRNG(3)

	t.Run("AI versus AI", func(t *testing.T) {
		c := &Config{
			Game: GameConfig{Difficulty: "expert", HumanSide: "none", FirstPlayer: "red",
				EnforceFormations: true, FormationBonusTurns: 2, MaxTurns: 50, HQDamage: true},
			AI: AIConfig{SiegeTurnThreshold: 12, NormalBestChance: 0.6},
		}
		gc, err := c.SessionConfig(layout, rng, zerolog.Nop())
		require.NoError(t, err)

		assert.Same(t, layout, gc.Layout)
		assert.Same(t, rng, gc.Rng)
		assert.Equal(t, "red", gc.FirstPlayer)
		assert.Equal(t, map[core.Owner]ai.Difficulty{core.Red: ai.Expert, core.Black: ai.Expert}, gc.AI)
		require.NotNil(t, gc.Rules)
		assert.True(t, gc.Rules.EnforceFormations)
		assert.Equal(t, 2, gc.Rules.BonusTurns)
		assert.False(t, gc.DisableHQDamage)
		assert.Equal(t, 50, gc.MaxTurns)
		assert.Equal(t, 12, gc.SiegeTurnThreshold)
		assert.Equal(t, 0.6, gc.NormalBestChance)
	})

	t.Run("human side", func(t *testing.T) {
		c := &Config{Game: GameConfig{Difficulty: "easy", HumanSide: "Black", HQDamage: false}}
		gc, err := c.SessionConfig(layout, rng, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, map[core.Owner]ai.Difficulty{core.Red: ai.Easy}, gc.AI)
		assert.True(t, gc.DisableHQDamage)
	})

	t.Run("bad human side", func(t *testing.T) {
		c := &Config{Game: GameConfig{HumanSide: "purple"}}
		_, err := c.SessionConfig(layout, rng, zerolog.Nop())
		assert.Error(t, err)
	})
}
