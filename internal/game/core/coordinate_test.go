package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition_IndexRoundTrip(t *testing.T) {
	tests := []struct {
		pos  Position
		size int
		idx  int
	}{
		{Position{0, 0}, 5, 0},
		{Position{0, 4}, 5, 4},
		{Position{1, 0}, 5, 5},
		{Position{2, 2}, 5, 12},
		{Position{24, 24}, 25, 624},
	}
	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.Equal(t, tt.idx, tt.pos.ToIndex(tt.size))
			assert.Equal(t, tt.pos, FromIndex(tt.idx, tt.size))
		})
	}
}

func TestPosition_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"top-left corner", Position{0, 0}, true},
		{"bottom-right corner", Position{4, 4}, true},
		{"negative row", Position{-1, 2}, false},
		{"negative col", Position{2, -1}, false},
		{"row too large", Position{5, 2}, false},
		{"col too large", Position{2, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pos.IsValid(5))
		})
	}
}

func TestPosition_Distances(t *testing.T) {
	a := Position{2, 3}
	b := Position{5, 1}

	assert.Equal(t, 5, a.DistanceTo(b))
	assert.Equal(t, 3, a.ChebyshevDistanceTo(b))
	assert.True(t, a.IsAdjacentTo(Position{3, 4}))
	assert.True(t, a.IsAdjacentTo(Position{1, 3}))
	assert.False(t, a.IsAdjacentTo(a))
	assert.False(t, a.IsAdjacentTo(Position{4, 3}))
}

func TestPosition_Arithmetic(t *testing.T) {
	p := Position{3, 3}
	assert.Equal(t, Position{1, 3}, p.Add(North.Scale(2)))
	assert.Equal(t, Position{0, -2}, Position{3, 1}.Sub(p))
	assert.Equal(t, "(3,3)", p.String())
	assert.Equal(t, "(4,4)", p.Human())
}

func TestPosition_Neighbors(t *testing.T) {
	assert.Len(t, Position{2, 2}.Neighbors(), 8)
	assert.Len(t, Position{0, 0}.ValidNeighbors(5), 3)
	assert.Len(t, Position{0, 2}.ValidNeighbors(5), 5)
	assert.Len(t, KnightOffsets, 8)
	assert.Len(t, AllDirections, 8)
}
