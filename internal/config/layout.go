package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/rand"

	"github.com/spf13/viper"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/mapgen"
)

//go:embed layouts/default.yaml
var defaultLayoutYAML []byte

// Layout is the on-disk board description
type Layout struct {
	BoardSize     int           `mapstructure:"board_size"`
	River         RiverConfig   `mapstructure:"river"`
	Gaps          []int         `mapstructure:"gaps"`
	Zones         ZonesConfig   `mapstructure:"zones"`
	VerticalZones VerticalZones `mapstructure:"vertical_zones"`
	Red           ArmyConfig    `mapstructure:"red"`
	Black         ArmyConfig    `mapstructure:"black"`
}

// RiverConfig holds the neutral rows and the contested city
type RiverConfig struct {
	Rows          []int `mapstructure:"rows"`
	ContestedCity Cell  `mapstructure:"contested_city"`
}

// Cell is a 0-based board coordinate
type Cell struct {
	Row int `mapstructure:"row"`
	Col int `mapstructure:"col"`
}

// Range is an inclusive row or column range
type Range struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

// ZonesConfig holds the column ranges of the three divisions
type ZonesConfig struct {
	Left   Range `mapstructure:"left"`
	Center Range `mapstructure:"center"`
	Right  Range `mapstructure:"right"`
}

// VerticalZones holds each side's depth bands
type VerticalZones struct {
	Red   BandsConfig `mapstructure:"red"`
	Black BandsConfig `mapstructure:"black"`
}

// BandsConfig holds the row ranges of one side's depth bands
type BandsConfig struct {
	Front Range `mapstructure:"front"`
	Main  Range `mapstructure:"main"`
	Rear  Range `mapstructure:"rear"`
}

// ArmyConfig is one side's starting roster
type ArmyConfig struct {
	Pieces []PieceSpec `mapstructure:"pieces"`
}

// PieceSpec places one piece. Type is the one-letter piece code; a zero
// Health means the kind's default.
type PieceSpec struct {
	Type   string `mapstructure:"type"`
	Row    int    `mapstructure:"row"`
	Col    int    `mapstructure:"col"`
	Health int    `mapstructure:"health"`
}

// DefaultLayout returns the embedded 25x25 layout
func DefaultLayout() (*core.Layout, error) {
	return ParseLayout(defaultLayoutYAML)
}

// LoadLayout reads a YAML layout file; an empty path loads the embedded
// default.
func LoadLayout(path string) (*core.Layout, error) {
	if path == "" {
		return DefaultLayout()
	}
	lv := viper.New()
	lv.SetConfigFile(path)
	if err := lv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading layout file %s: %w", path, err)
	}
	return decodeLayout(lv)
}

// ParseLayout decodes a YAML layout held in memory
func ParseLayout(data []byte) (*core.Layout, error) {
	lv := viper.New()
	lv.SetConfigType("yaml")
	if err := lv.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error parsing layout: %w", err)
	}
	return decodeLayout(lv)
}

// ResolveLayout picks the layout a game described by c should use: a
// generated board when game.generate.size is set, otherwise the layout
// file or the embedded default.
func ResolveLayout(c *Config, rng *rand.Rand) (*core.Layout, error) {
	if c.Game.Generate.Size > 0 {
		mc := mapgen.DefaultMapConfig(c.Game.Generate.Size)
		mc.ShuffleFlanks = c.Game.Generate.ShuffleFlanks
		return mapgen.NewGenerator(mc, rng).GenerateLayout()
	}
	return LoadLayout(c.Game.LayoutFile)
}

func decodeLayout(lv *viper.Viper) (*core.Layout, error) {
	var raw Layout
	if err := lv.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unable to decode layout: %w", err)
	}
	layout, err := raw.ToCore()
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// ToCore converts the file form into the engine's layout. It checks the
// piece codes; geometric checks are left to core.Layout.Validate.
func (l *Layout) ToCore() (*core.Layout, error) {
	out := &core.Layout{
		Size:          l.BoardSize,
		RiverRows:     l.River.Rows,
		ContestedCity: core.NewPosition(l.River.ContestedCity.Row, l.River.ContestedCity.Col),
		Gaps:          l.Gaps,
		Divisions: [3]core.Span{
			l.Zones.Left.span(),
			l.Zones.Center.span(),
			l.Zones.Right.span(),
		},
	}
	out.Bands[core.Red] = l.VerticalZones.Red.spans()
	out.Bands[core.Black] = l.VerticalZones.Black.spans()

	for _, side := range core.Owners {
		army := l.Red
		if side == core.Black {
			army = l.Black
		}
		for i, ps := range army.Pieces {
			kind, err := core.ParseKind(ps.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %s piece %d: %v", core.ErrInvalidLayout, side, i, err)
			}
			if ps.Health < 0 {
				return nil, fmt.Errorf("%w: %s piece %d: negative health %d", core.ErrInvalidLayout, side, i, ps.Health)
			}
			p := core.NewPiece(kind, side, core.NewPosition(ps.Row, ps.Col))
			if ps.Health > 0 {
				p.Health = ps.Health
			}
			out.Pieces = append(out.Pieces, p)
		}
	}
	return out, nil
}

func (r Range) span() core.Span { return core.Span{Start: r.Start, End: r.End} }

func (b BandsConfig) spans() [3]core.Span {
	return [3]core.Span{b.Front.span(), b.Main.span(), b.Rear.span()}
}
