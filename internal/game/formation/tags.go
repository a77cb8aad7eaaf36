package formation

import "github.com/zhanguoqi/engine/internal/game/core"

// Tags records the formation each side has adopted in each division. It is
// a value type: With returns an updated copy and leaves the receiver alone.
// The zero value has every division in Line.
type Tags struct {
	zones [2][3]Kind
}

// Of returns owner's formation in zone; gap columns have None
func (t Tags) Of(owner core.Owner, zone core.Zone) Kind {
	if !zone.IsDivision() {
		return None
	}
	return t.zones[owner][zone]
}

// At returns the formation covering the piece standing at col
func (t Tags) At(layout *core.Layout, owner core.Owner, col int) Kind {
	return t.Of(owner, layout.ZoneOf(col))
}

// With returns a copy with owner's formation in zone set to k
func (t Tags) With(owner core.Owner, zone core.Zone, k Kind) Tags {
	if zone.IsDivision() && k.Valid() {
		t.zones[owner][zone] = k
	}
	return t
}
