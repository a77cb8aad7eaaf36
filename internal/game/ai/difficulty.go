package ai

import (
	"fmt"
	"strings"
)

// Difficulty selects how greedily the AI picks among its scored candidates
// and whether it looks at threats at all.
type Difficulty int8

const (
	Easy Difficulty = iota
	Normal
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Expert:
		return "expert"
	}
	return fmt.Sprintf("Difficulty(%d)", int8(d))
}

// ThreatAware is false only for Easy
func (d Difficulty) ThreatAware() bool { return d != Easy }

// ParseDifficulty accepts easy, normal or expert in any case
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "normal", "":
		return Normal, nil
	case "expert", "hard":
		return Expert, nil
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}
