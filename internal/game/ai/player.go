// Package ai is the computer opponent: it enumerates every action its side
// can take, scores each with a fixed heuristic and picks one according to
// its difficulty.
package ai

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/formation"
	"github.com/zhanguoqi/engine/internal/game/processor"
	"github.com/zhanguoqi/engine/internal/game/rules"
)

// Defaults for Config fields left at zero
const (
	DefaultSiegeTurnThreshold = 20
	DefaultNormalBestChance   = 0.7
)

// Config holds everything an AIPlayer needs
type Config struct {
	Owner      core.Owner
	Difficulty Difficulty
	Rng        *rand.Rand
	Logger     zerolog.Logger
	// Processor executes the chosen action; a formation-enforcing one is
	// created when nil.
	Processor *processor.ActionProcessor

	// SiegeTurnThreshold holds siege engines back until the estimated
	// turn count reaches it, unless the center is clear.
	SiegeTurnThreshold int
	// NormalBestChance is how often Normal plays its top candidate.
	NormalBestChance float64
	// BaselinePieces is the starting piece count used to estimate the
	// turn; the layout roster size when zero.
	BaselinePieces int
}

// Candidate is one scored action the AI could take
type Candidate struct {
	Score       int
	Priority    int
	Description string
	Action      processor.Action
}

// AIPlayer is immutable after construction apart from its random source
type AIPlayer struct {
	owner      core.Owner
	enemy      core.Owner
	difficulty Difficulty
	rng        *rand.Rand
	proc       *processor.ActionProcessor
	cfg        Config
	logger     zerolog.Logger
}

// New creates an AI player for one side
func New(cfg Config) *AIPlayer {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.SiegeTurnThreshold <= 0 {
		cfg.SiegeTurnThreshold = DefaultSiegeTurnThreshold
	}
	if cfg.NormalBestChance <= 0 {
		cfg.NormalBestChance = DefaultNormalBestChance
	}
	logger := cfg.Logger.With().
		Str("component", "AIPlayer").
		Str("owner", cfg.Owner.String()).
		Str("difficulty", cfg.Difficulty.String()).
		Logger()
	if cfg.Processor == nil {
		cfg.Processor = processor.NewActionProcessor(cfg.Logger, processor.DefaultConfig())
	}
	return &AIPlayer{
		owner:      cfg.Owner,
		enemy:      cfg.Owner.Opponent(),
		difficulty: cfg.Difficulty,
		rng:        cfg.Rng,
		proc:       cfg.Processor,
		cfg:        cfg,
		logger:     logger,
	}
}

// NewPlayer is New with a no-op logger and default tuning
func NewPlayer(owner core.Owner, difficulty Difficulty, rng *rand.Rand) *AIPlayer {
	return New(Config{Owner: owner, Difficulty: difficulty, Rng: rng, Logger: zerolog.Nop()})
}

// Owner is the side this AI plays
func (ai *AIPlayer) Owner() core.Owner { return ai.owner }

// Difficulty is the configured strength
func (ai *AIPlayer) Difficulty() Difficulty { return ai.difficulty }

// MakeMove plays one turn on a board with every zone in Line formation
func (ai *AIPlayer) MakeMove(b *core.Board) processor.Outcome {
	return ai.MakeMoveWith(b, formation.Tags{})
}

// MakeMoveWith plays one turn. When nothing is playable the outcome is a
// pass: Success false, "No valid actions" and the board unchanged.
func (ai *AIPlayer) MakeMoveWith(b *core.Board, tags formation.Tags) processor.Outcome {
	candidates := ai.Candidates(b, tags)
	if len(candidates) == 0 {
		ai.logger.Debug().Msg("No candidates, passing")
		return processor.Outcome{Message: "No valid actions", Board: b, Tags: tags}
	}

	chosen := ai.choose(candidates)
	ai.logger.Debug().
		Str("description", chosen.Description).
		Int("score", chosen.Score).
		Int("priority", chosen.Priority).
		Int("candidates", len(candidates)).
		Msg("AI chose action")

	return ai.proc.Apply(b, tags, ai.owner, chosen.Action)
}

// Candidates enumerates and scores every action, best first
func (ai *AIPlayer) Candidates(b *core.Board, tags formation.Tags) []Candidate {
	an := ai.analyze(b)
	var out []Candidate

	for _, piece := range b.Pieces(ai.owner) {
		if piece.Kind == core.Siege && ai.difficulty != Easy &&
			an.TurnEstimate < ai.cfg.SiegeTurnThreshold && !an.HasClearPath {
			continue
		}

		for _, to := range rules.LegalDestinations(b, piece, ai.owner) {
			if !ai.proc.CanAttack(b, tags, piece.Pos, to, false) {
				continue
			}
			score, priority := ai.evaluateMove(b, piece, to, an)
			out = append(out, Candidate{
				Score:       score,
				Priority:    priority,
				Description: fmt.Sprintf("Move %c %s -> %s", piece.Kind.Code(), piece.Pos, to),
				Action:      &processor.MoveAction{Owner: ai.owner, From: piece.Pos, To: to},
			})
		}

		out = append(out, ai.specialActions(b, tags, piece)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// specialActions scores ranged fire, volley and conversion for one piece
func (ai *AIPlayer) specialActions(b *core.Board, tags formation.Tags, piece core.Piece) []Candidate {
	var out []Candidate

	if piece.Kind.IsRanged() && !piece.Reloading {
		if at, ok := rules.CanFireRanged(b, piece); ok {
			if ai.proc.CanAttack(b, tags, piece.Pos, at, true) {
				target, _ := b.Get(at)
				priority := PriorityFire
				if target.Kind.IsCommander() {
					priority = PriorityFireLeader
				}
				label := "Crossbow"
				if piece.Kind == core.Archer {
					label = "Archer"
				}
				out = append(out, Candidate{
					Score:       target.Kind.Value() * 3,
					Priority:    priority,
					Description: fmt.Sprintf("%s fire at %s", label, at),
					Action:      &processor.RangedFireAction{Owner: ai.owner, From: piece.Pos},
				})
			}
		}

		if piece.Kind == core.Archer {
			best, bestValue := core.Position{}, 0
			for _, vt := range rules.VolleyTargets(b, piece) {
				if !ai.proc.CanAttack(b, tags, piece.Pos, vt, true) {
					continue
				}
				if tp, ok := b.Get(vt); ok && tp.Kind.Value() > bestValue {
					best, bestValue = vt, tp.Kind.Value()
				}
			}
			if bestValue > 0 {
				out = append(out, Candidate{
					Score:       bestValue * 2,
					Priority:    PriorityVolley,
					Description: fmt.Sprintf("Volley at %s", best),
					Action:      &processor.VolleyAction{Owner: ai.owner, From: piece.Pos, Target: best},
				})
			}
		}
	}

	if piece.Kind == core.Priest {
		for _, at := range rules.ConvertTargets(b, piece) {
			target, _ := b.Get(at)
			priority := PriorityConvert
			if target.Kind.IsCommander() {
				priority = PriorityConvertLeader
			}
			out = append(out, Candidate{
				Score:       target.Kind.Value() * 4,
				Priority:    priority,
				Description: fmt.Sprintf("Convert %c at %s", target.Kind.Code(), at),
				Action:      &processor.ConvertAction{Owner: ai.owner, From: piece.Pos, Target: at},
			})
		}
	}
	return out
}

// choose applies the difficulty policy to candidates sorted best first
func (ai *AIPlayer) choose(candidates []Candidate) Candidate {
	switch ai.difficulty {
	case Easy:
		return candidates[ai.rng.Intn(min(3, len(candidates)))]
	case Normal:
		if ai.rng.Float64() < ai.cfg.NormalBestChance || candidates[0].Priority >= UrgentPriority {
			return candidates[0]
		}
		return candidates[ai.rng.Intn(min(2, len(candidates)))]
	default:
		return candidates[0]
	}
}
