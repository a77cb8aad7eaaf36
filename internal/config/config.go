package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/zhanguoqi/engine/internal/game"
	"github.com/zhanguoqi/engine/internal/game/ai"
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/mapgen"
	"github.com/zhanguoqi/engine/internal/game/processor"
)

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	AI      AIConfig      `mapstructure:"ai"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig holds game rules and setup
type GameConfig struct {
	LayoutFile          string         `mapstructure:"layout_file"`
	Generate            GenerateConfig `mapstructure:"generate"`
	Difficulty          string         `mapstructure:"difficulty"`
	HumanSide           string         `mapstructure:"human_side"`
	FirstPlayer         string         `mapstructure:"first_player"`
	EnforceFormations   bool           `mapstructure:"enforce_formations"`
	FormationBonusTurns int            `mapstructure:"formation_bonus_turns"`
	Seed                int64          `mapstructure:"seed"`
	MaxTurns            int            `mapstructure:"max_turns"`
	HQDamage            bool           `mapstructure:"hq_damage"`
}

// GenerateConfig asks for a generated board instead of a layout file
type GenerateConfig struct {
	Size          int  `mapstructure:"size"`
	ShuffleFlanks bool `mapstructure:"shuffle_flanks"`
}

// AIConfig holds AI tuning
type AIConfig struct {
	SiegeTurnThreshold int     `mapstructure:"siege_turn_threshold"`
	NormalBestChance   float64 `mapstructure:"normal_best_chance"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	DevMode bool   `mapstructure:"dev_mode"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.layout_file", "")
	v.SetDefault("game.generate.size", 0)
	v.SetDefault("game.generate.shuffle_flanks", false)
	v.SetDefault("game.difficulty", "normal")
	v.SetDefault("game.human_side", "none")
	v.SetDefault("game.first_player", "black")
	v.SetDefault("game.enforce_formations", true)
	v.SetDefault("game.formation_bonus_turns", processor.DefaultBonusTurns)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.max_turns", 0)
	v.SetDefault("game.hq_damage", true)

	v.SetDefault("ai.siege_turn_threshold", 20)
	v.SetDefault("ai.normal_best_chance", 0.7)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.dev_mode", false)
}

// Init initializes the configuration. A configPath that does not exist
// falls back to the defaults.
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/zhanguo")
	}

	v.SetEnvPrefix("ZHQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configPath != "" && isMissing(configPath):
		case configPath == "" && errors.As(err, &notFound):
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func isMissing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	if isMissing(envFile) {
		return nil
	}

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	v.Set(key, value)
	return v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig reloads the config file when it changes. onChange sees the
// new config only when it passes validation; a bad edit keeps the old one.
func WatchConfig(logger zerolog.Logger, onChange func(*Config)) {
	logger = logger.With().Str("component", "Config").Logger()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			logger.Error().Err(err).Str("file", e.Name).Msg("Failed to decode changed config")
			return
		}
		if err := Validate(next); err != nil {
			logger.Error().Err(err).Str("file", e.Name).Msg("Changed config is invalid, keeping previous")
			return
		}
		cfg = next
		logger.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.Generate.Size != 0 {
		if err := mapgen.ValidateSize(c.Game.Generate.Size); err != nil {
			return fmt.Errorf("game.generate.size: %w", err)
		}
	}
	if _, err := ai.ParseDifficulty(c.Game.Difficulty); err != nil {
		return fmt.Errorf("game.difficulty: %w", err)
	}
	if _, _, err := parseHumanSide(c.Game.HumanSide); err != nil {
		return err
	}
	if _, err := core.ParseOwner(c.Game.FirstPlayer); err != nil {
		return fmt.Errorf("game.first_player: %w", err)
	}
	if c.Game.FormationBonusTurns < 0 {
		return fmt.Errorf("game.formation_bonus_turns must be non-negative")
	}
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("game.max_turns must be non-negative")
	}

	if c.AI.SiegeTurnThreshold < 0 {
		return fmt.Errorf("ai.siege_turn_threshold must be non-negative")
	}
	if c.AI.NormalBestChance < 0 || c.AI.NormalBestChance > 1 {
		return fmt.Errorf("ai.normal_best_chance must be between 0 and 1")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// parseHumanSide returns the side a person plays; ok is false for "none"
func parseHumanSide(s string) (core.Owner, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return 0, false, nil
	}
	side, err := core.ParseOwner(s)
	if err != nil {
		return 0, false, fmt.Errorf("game.human_side must be red, black or none: %w", err)
	}
	return side, true, nil
}

// SessionConfig builds the settings for game.New. Every side except the
// human one is played by the AI at game.difficulty.
func (c *Config) SessionConfig(layout *core.Layout, rng *rand.Rand, logger zerolog.Logger) (game.GameConfig, error) {
	difficulty, err := ai.ParseDifficulty(c.Game.Difficulty)
	if err != nil {
		return game.GameConfig{}, fmt.Errorf("game.difficulty: %w", err)
	}
	human, hasHuman, err := parseHumanSide(c.Game.HumanSide)
	if err != nil {
		return game.GameConfig{}, err
	}

	players := make(map[core.Owner]ai.Difficulty, 2)
	for _, side := range core.Owners {
		if hasHuman && side == human {
			continue
		}
		players[side] = difficulty
	}

	return game.GameConfig{
		Layout:      layout,
		FirstPlayer: c.Game.FirstPlayer,
		AI:          players,
		Rules: &processor.Config{
			EnforceFormations: c.Game.EnforceFormations,
			BonusTurns:        c.Game.FormationBonusTurns,
		},
		DisableHQDamage:    !c.Game.HQDamage,
		MaxTurns:           c.Game.MaxTurns,
		SiegeTurnThreshold: c.AI.SiegeTurnThreshold,
		NormalBestChance:   c.AI.NormalBestChance,
		Rng:                rng,
		Logger:             logger,
	}, nil
}
