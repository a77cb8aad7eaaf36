package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhanguoqi/engine/internal/config"
	"github.com/zhanguoqi/engine/internal/game"
	"github.com/zhanguoqi/engine/internal/game/ai"
	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/events"
	"github.com/zhanguoqi/engine/internal/game/events/subscribers"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	layoutPath := flag.String("layout", "", "Path to a layout YAML file (empty to use config default)")
	size := flag.Int("size", 0, "Generate an odd-sized board instead of loading a layout (0 to use config default)")
	seed := flag.Int64("seed", 0, "Random seed (0 to use config default, then the clock)")
	red := flag.String("red", "", "Red AI difficulty: easy, normal or expert (empty to use config default)")
	black := flag.String("black", "", "Black AI difficulty: easy, normal or expert (empty to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Turn limit, 0 for none (-1 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	games := flag.Int("games", 1, "Number of games to play in a row")
	watch := flag.Bool("watch", false, "Reload the config file between games when it changes")
	color := flag.Bool("color", false, "Render the board with ANSI colors")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()

	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	current := &liveConfig{cfg: cfg}
	if *watch {
		config.WatchConfig(log.Logger, current.set)
		log.Info().Str("file", config.ConfigFilePath()).Msg("Watching config for changes")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := subscribers.NewStatsCollector("match_stats", log.Logger)
	opts := options{
		stats:    stats,
		layout:   *layoutPath,
		size:     *size,
		seed:     *seed,
		red:      *red,
		black:    *black,
		maxTurns: *maxTurns,
		color:    *color,
	}
	for i := 0; i < *games; i++ {
		if err := playGame(ctx, current.get(), opts); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn().Msg("Interrupted")
				return
			}
			log.Fatal().Err(err).Int("game", i+1).Msg("Game failed")
		}
	}
}

type options struct {
	layout   string
	size     int
	seed     int64
	red      string
	black    string
	maxTurns int
	color    bool
	stats    *subscribers.StatsCollector
}

// liveConfig hands each new game the latest validated config
type liveConfig struct {
	mu  sync.Mutex
	cfg *config.Config
}

func (l *liveConfig) get() *config.Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

func (l *liveConfig) set(c *config.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = c
}

func playGame(ctx context.Context, base *config.Config, opts options) error {
	c := *base
	if opts.layout != "" {
		c.Game.LayoutFile = opts.layout
	}
	if opts.size > 0 {
		c.Game.Generate.Size = opts.size
	}
	if opts.maxTurns >= 0 {
		c.Game.MaxTurns = opts.maxTurns
	}

	seed := opts.seed
	if seed == 0 {
		seed = c.Game.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	layout, err := config.ResolveLayout(&c, rng)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	gc, err := c.SessionConfig(layout, rng, log.Logger)
	if err != nil {
		return err
	}
	for side, flagValue := range map[core.Owner]string{core.Red: opts.red, core.Black: opts.black} {
		if flagValue == "" {
			continue
		}
		d, err := ai.ParseDifficulty(flagValue)
		if err != nil {
			return fmt.Errorf("-%s: %w", strings.ToLower(side.String()), err)
		}
		gc.AI[side] = d
	}

	bus := events.NewEventBus(log.Logger)
	eventLogger := subscribers.NewLoggerSubscriber("event_logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(c.Logging.DevMode)
	bus.Subscribe(eventLogger)
	bus.Subscribe(opts.stats)
	gc.EventBus = bus

	g, err := game.New(ctx, gc)
	if err != nil {
		return err
	}
	log.Info().
		Str("game_id", g.ID()).
		Int64("seed", seed).
		Int("board_size", layout.Size).
		Msg("Starting game")

	runErr := g.Run(ctx)
	if runErr != nil && !errors.Is(runErr, game.ErrAwaitingHuman) {
		return runErr
	}

	for _, line := range g.Log() {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Print(g.Render(opts.color))

	if errors.Is(runErr, game.ErrAwaitingHuman) {
		fmt.Printf("\n%s is played by a person; this binary only plays AI sides.\n", g.CurrentPlayer())
		return nil
	}
	if winner, ok := g.Winner(); ok {
		fmt.Printf("\n%s wins after %d turns.\n", winner, g.TurnCount())
	} else {
		fmt.Printf("\nDraw after %d turns.\n", g.TurnCount())
	}
	if summary, ok := opts.stats.Get(g.ID()); ok {
		printStats(summary)
	}
	return nil
}

func printStats(m subscribers.MatchStats) {
	fmt.Printf("%-6s %8s %8s %8s %6s %10s %6s\n", "side", "actions", "captures", "value", "lost", "hq damage", "passes")
	for _, side := range core.Owners {
		s := m.Sides[side]
		actions := 0
		for _, n := range s.Actions {
			actions += n
		}
		fmt.Printf("%-6s %8d %8d %8d %6d %10d %6d\n",
			side, actions, s.Captures, s.CapturedValue, s.PiecesLost, s.HQDamageTaken, s.Passes)
	}
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
