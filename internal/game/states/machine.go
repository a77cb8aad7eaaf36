package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/zhanguoqi/engine/internal/game/events"
)

// State is the behaviour attached to one phase
type State interface {
	Phase() GamePhase
	// Validate runs before the move and can veto it.
	Validate(ctx *GameContext) error
	Enter(ctx *GameContext) error
	// Exit errors are logged; they never block the move.
	Exit(ctx *GameContext) error
}

// Transition is one entry of the phase history
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

const defaultMaxHistory = 100

// StateMachine moves a game between phases. Every completed move is
// recorded and published as a StateTransitionEvent.
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   GamePhase
	states         map[GamePhase]State
	context        *GameContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine starts in PhaseInitializing. publisher may be nil.
func NewStateMachine(ctx *GameContext, publisher events.Publisher) *StateMachine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	sm := &StateMachine{
		currentPhase:   PhaseInitializing,
		states:         make(map[GamePhase]State, len(phaseNames)),
		context:        ctx,
		maxHistorySize: defaultMaxHistory,
		publisher:      publisher,
	}
	for _, state := range defaultStates() {
		sm.states[state.Phase()] = state
	}
	return sm
}

// RegisterState replaces the behaviour of state's phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.states[state.Phase()] = state
}

func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentPhase
}

// TransitionTo moves to target. The target state validates first, then the
// current state exits and the target enters; a failed Enter puts the
// machine back where it was.
func (sm *StateMachine) TransitionTo(target GamePhase, reason string) error {
	sm.mu.Lock()
	move, err := sm.move(target, reason)
	sm.mu.Unlock()
	if err != nil {
		return err
	}

	sm.publisher.Publish(events.NewStateTransitionEvent(
		sm.context.GameID,
		move.From.String(),
		move.To.String(),
		reason,
	))
	return nil
}

func (sm *StateMachine) move(target GamePhase, reason string) (Transition, error) {
	from := sm.currentPhase
	if !from.CanTransitionTo(target) {
		return Transition{}, fmt.Errorf("invalid transition from %s to %s", from, target)
	}
	next, ok := sm.states[target]
	if !ok {
		return Transition{}, fmt.Errorf("no state implementation for phase %s", target)
	}
	if err := next.Validate(sm.context); err != nil {
		return Transition{}, fmt.Errorf("cannot enter %s: %w", target, err)
	}

	log := sm.context.Logger.With().
		Str("from_phase", from.String()).
		Str("to_phase", target.String()).
		Logger()

	if current, ok := sm.states[from]; ok {
		if err := current.Exit(sm.context); err != nil {
			log.Error().Err(err).Msg("Error leaving phase")
		}
	}

	sm.currentPhase = target
	if err := next.Enter(sm.context); err != nil {
		sm.currentPhase = from
		return Transition{}, fmt.Errorf("failed to enter state %s: %w", target, err)
	}

	t := Transition{From: from, To: target, Timestamp: time.Now(), Reason: reason}
	sm.history = append(sm.history, t)
	if over := len(sm.history) - sm.maxHistorySize; over > 0 {
		sm.history = sm.history[over:]
	}

	log.Info().Str("reason", reason).Msg("Phase changed")
	return t, nil
}

// GetHistory returns a copy of the recorded transitions, oldest first
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Transition(nil), sm.history...)
}

func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.context
}

// CanTransitionTo reports whether target is reachable from the current phase
func (sm *StateMachine) CanTransitionTo(target GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentPhase.CanTransitionTo(target)
}

// Fail records err on the context and moves to PhaseError
func (sm *StateMachine) Fail(err error) error {
	sm.mu.Lock()
	sm.context.Error = err
	sm.mu.Unlock()
	return sm.TransitionTo(PhaseError, err.Error())
}

// Reset takes a finished or failed game through PhaseReset back to
// PhaseInitializing and forgets the history.
func (sm *StateMachine) Reset() error {
	for _, step := range []struct {
		phase  GamePhase
		reason string
	}{
		{PhaseReset, "Reset requested"},
		{PhaseInitializing, "Reset complete"},
	} {
		if err := sm.TransitionTo(step.phase, step.reason); err != nil {
			return err
		}
	}

	sm.mu.Lock()
	sm.history = nil
	sm.mu.Unlock()
	return nil
}
