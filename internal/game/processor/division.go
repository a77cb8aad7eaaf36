package processor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zhanguoqi/engine/internal/game/core"
	"github.com/zhanguoqi/engine/internal/game/formation"
)

// ExecuteDivisionMove shifts every eligible piece the owner has in zone
// (optionally limited to one depth band) a single row. The HQ never moves
// and the General only moves with the main band. Pieces nearest the
// direction of travel go first so a column can advance as one. A piece
// stays put when its destination is off the board, holds a friend or holds
// an enemy commander; any other enemy there is captured.
func (ap *ActionProcessor) ExecuteDivisionMove(b *core.Board, tags formation.Tags, owner core.Owner, zone core.Zone, dir Direction, band core.Band) Outcome {
	layout := b.Layout()
	cols, ok := layout.ZoneSpan(zone)
	if !ok {
		return ap.reject(ActionDivisionMove, owner, failure(b, tags, core.ErrInvalidZone, "Invalid zone"))
	}
	leader, _ := zone.Commander()
	if _, ok := b.FindByType(owner, leader); !ok {
		return ap.reject(ActionDivisionMove, owner, failure(b, tags, core.ErrNoCommander, "No commander in zone"))
	}

	rows := core.Span{Start: 0, End: b.Size() - 1}
	if band != core.BandNone {
		rows, ok = layout.BandSpan(owner, band)
		if !ok {
			return ap.reject(ActionDivisionMove, owner, failure(b, tags, core.ErrInvalidZone, "Invalid band"))
		}
	}

	dr := owner.Forward()
	if dir == Back {
		dr = -dr
	}

	var movers []core.Piece
	for _, p := range b.Pieces(owner) {
		if !rows.Contains(p.Pos.Row) || !cols.Contains(p.Pos.Col) {
			continue
		}
		if p.Kind == core.HQ || (p.Kind == core.General && band != core.BandMain) {
			continue
		}
		movers = append(movers, p)
	}
	slices.SortStableFunc(movers, func(a, c core.Piece) int {
		if dr < 0 {
			return a.Pos.Row - c.Pos.Row
		}
		return c.Pos.Row - a.Pos.Row
	})

	ed := b.Edit()
	var captured []core.Piece
	moved := 0
	for _, p := range movers {
		to := p.Pos.Add(core.Position{Row: dr})
		if !b.InBounds(to) {
			continue
		}
		if occ, hit := ed.Get(to); hit {
			if occ.Owner == owner || occ.Kind.IsCommander() {
				continue
			}
			if v := ap.checkFormation(ed.Board(), tags, p, occ, false); !v.CanAttack {
				continue
			}
			captured = append(captured, occ)
		}
		if _, _, err := ed.Move(p.Pos, to); err != nil {
			continue
		}
		moved++
	}

	if moved == 0 {
		return ap.reject(ActionDivisionMove, owner, failure(b, tags, core.ErrNothingMoved, "No pieces could move"))
	}

	var msg strings.Builder
	if band != core.BandNone {
		msg.WriteString(strings.ToUpper(band.String()) + " ")
	}
	fmt.Fprintf(&msg, "DIVISION MOVE %s %s: moved %d pieces.", zone, dir, moved)
	if len(captured) > 0 {
		fmt.Fprintf(&msg, " Captured %d enemies!", len(captured))
	}

	return ap.applied(ActionDivisionMove, owner, Outcome{
		Success:  true,
		Message:  msg.String(),
		Board:    ed.Board(),
		Tags:     tags,
		Captured: captured,
		Moved:    moved,
	})
}
