package common

import "github.com/zhanguoqi/engine/internal/game/core"

// ANSI escape sequences used by the terminal renderer
const (
	ColorReset = "\x1b[0m"
	ColorDim   = "\x1b[2m"
)

// PlayerColors defines the terminal color for each side
var PlayerColors = map[core.Owner]string{
	core.Red:   "\x1b[31;1m", // bright red
	core.Black: "\x1b[36;1m", // cyan reads better than black on dark terminals
}

// Terrain colors
var (
	RiverColor = "\x1b[34m"
	GapColor   = "\x1b[90m"
	CityColor  = "\x1b[33m"
)

// Colorize wraps s in the given escape sequence
func Colorize(s, color string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset
}
