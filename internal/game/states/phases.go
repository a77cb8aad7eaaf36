package states

import (
	"fmt"
	"slices"
)

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseInitializing - board loaded, sides being assigned
	PhaseInitializing GamePhase = iota

	// PhaseRunning - turns are being played
	PhaseRunning

	// PhaseEnded - a side lost its General or HQ, or the turn limit was hit
	PhaseEnded

	// PhaseError - the session could not continue
	PhaseError

	// PhaseReset - clearing results before a rematch on the same context
	PhaseReset
)

var phaseNames = map[GamePhase]string{
	PhaseInitializing: "Initializing",
	PhaseRunning:      "Running",
	PhaseEnded:        "Ended",
	PhaseError:        "Error",
	PhaseReset:        "Reset",
}

func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveActions returns true if the game can process player actions in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []GamePhase{PhaseEnded, PhaseError}
	case PhaseEnded, PhaseError:
		return []GamePhase{PhaseReset}
	case PhaseReset:
		return []GamePhase{PhaseInitializing}
	default:
		return []GamePhase{}
	}
}

func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	return slices.Contains(p.AllowedTransitions(), target)
}

// ParsePhase converts a phase name back to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	for phase, name := range phaseNames {
		if name == s {
			return phase, nil
		}
	}
	return PhaseInitializing, fmt.Errorf("unknown game phase %q", s)
}
