package game

import (
	"fmt"
	"strings"

	"github.com/zhanguoqi/engine/internal/common"
	"github.com/zhanguoqi/engine/internal/game/core"
)

const (
	emptySymbol = "."
	riverSymbol = "~"
	gapSymbol   = ":"
	citySymbol  = "#"
)

// Render draws the board with 1-based row and column labels. Red pieces
// are upper case, Black lower case. With color set, sides and terrain are
// shaded with ANSI escapes.
func (g *Game) Render(color bool) string {
	return RenderBoard(g.board, color)
}

// RenderBoard draws any board the way Game.Render does
func RenderBoard(b *core.Board, color bool) string {
	size := b.Size()
	layout := b.Layout()

	var sb strings.Builder
	sb.Grow((size*3 + 8) * (size + 3))

	sb.WriteString("    ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&sb, "%3d", c+1)
	}
	sb.WriteString("\n")

	for r := 0; r < size; r++ {
		fmt.Fprintf(&sb, "%3d ", r+1)
		for c := 0; c < size; c++ {
			sym, shade := cellDisplay(b, layout, core.NewPosition(r, c))
			sb.WriteString("  ")
			if color {
				sb.WriteString(common.Colorize(sym, shade))
			} else {
				sb.WriteString(sym)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(legend(color))
	return sb.String()
}

func cellDisplay(b *core.Board, layout *core.Layout, pos core.Position) (string, string) {
	if p, ok := b.Get(pos); ok {
		return p.Symbol(), common.PlayerColors[p.Owner]
	}
	switch {
	case layout.IsContestedCity(pos):
		return citySymbol, common.CityColor
	case layout.IsRiver(pos.Row):
		return riverSymbol, common.RiverColor
	case layout.IsGap(pos.Col):
		return gapSymbol, common.GapColor
	default:
		return emptySymbol, common.ColorDim
	}
}

func legend(color bool) string {
	red, black := "Red=UPPER", "Black=lower"
	if color {
		red = common.Colorize(red, common.PlayerColors[core.Red])
		black = common.Colorize(black, common.PlayerColors[core.Black])
	}
	return fmt.Sprintf("%s %s %s=river %s=gap %s=city\n",
		red, black, riverSymbol, gapSymbol, citySymbol)
}
