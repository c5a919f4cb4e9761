package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoCells returns a minimal valid mesh input: two mutual neighbors.
func twoCells() []Cell {
	return []Cell{
		{ID: 0, Neighbors: []int{1}, Height: 0.5, Point: Point{0, 0}},
		{ID: 1, Neighbors: []int{0}, Height: 0.4, Point: Point{1, 0}},
	}
}

func TestNewMesh_Empty(t *testing.T) {
	_, err := NewMesh(nil)
	require.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewMesh([]Cell{})
	require.ErrorIs(t, err, ErrEmptyMesh)
}

func TestNewMesh_SkipsMalformedCells(t *testing.T) {
	cells := []Cell{
		{ID: 0, Neighbors: []int{1, 2, 3}, Height: 0.5},
		{ID: 1, Neighbors: nil, Height: 0.5},            // no neighbor data
		{ID: 2, Neighbors: []int{0}, Height: math.NaN()}, // non-finite height
		{ID: 3, Neighbors: []int{0}, Height: 0.6},
	}
	m, err := NewMesh(cells)
	require.NoError(t, err)

	assert.True(t, m.Usable(0))
	assert.False(t, m.Usable(1))
	assert.False(t, m.Usable(2))
	assert.True(t, m.Usable(3))
	assert.Len(t, m.Diags(), 2)

	// Unusable neighbors must be filtered from adjacency.
	nbs := m.Neighbors(0, nil)
	assert.Equal(t, []int{3}, nbs)
}

func TestNewMesh_BadNeighborIDs(t *testing.T) {
	cells := []Cell{
		{ID: 0, Neighbors: []int{5}, Height: 0.5},  // out of range
		{ID: 1, Neighbors: []int{1}, Height: 0.5},  // self loop
		{ID: 2, Neighbors: []int{-1}, Height: 0.5}, // negative
	}
	m, err := NewMesh(cells)
	require.NoError(t, err)
	for id := 0; id < 3; id++ {
		assert.False(t, m.Usable(id), "cell %d should be unusable", id)
	}
	assert.Len(t, m.Diags(), 3)
}

func TestNewMesh_DeepCopies(t *testing.T) {
	cells := twoCells()
	m, err := NewMesh(cells)
	require.NoError(t, err)

	cells[0].Neighbors[0] = 99 // corrupt the caller's slice after the fact
	assert.Equal(t, []int{1}, m.Neighbors(0, nil))
}

func TestMesh_PointOf(t *testing.T) {
	m, err := NewMesh(twoCells())
	require.NoError(t, err)

	p, err := m.PointOf(1)
	require.NoError(t, err)
	assert.Equal(t, Point{1, 0}, p)

	_, err = m.PointOf(7)
	require.ErrorIs(t, err, ErrCellRange)
}

func TestMesh_AreaShoelace(t *testing.T) {
	cells := []Cell{
		{ID: 0, Neighbors: []int{1}, Height: 0.5,
			Ring: []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}, // 2x2 square
		{ID: 1, Neighbors: []int{0}, Height: 0.5}, // no ring
	}
	m, err := NewMesh(cells)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, m.Area(0), 1e-12)
	assert.Zero(t, m.Area(1))
}

func TestMesh_IsWater(t *testing.T) {
	m, err := NewMesh(twoCells())
	require.NoError(t, err)

	assert.False(t, m.IsWater(0, 0.2)) // 0.5 above sea level
	assert.True(t, m.IsWater(1, 0.45)) // 0.4 below
}

func TestNewState_Defaults(t *testing.T) {
	m, err := NewMesh(twoCells())
	require.NoError(t, err)

	st := NewState(m)
	assert.Equal(t, []float64{0.5, 0.4}, st.Height)
	assert.Equal(t, []int{NoCell, NoCell}, st.Down)
	assert.Equal(t, []int{NoLake, NoLake}, st.LakeID)
	assert.Equal(t, []int{NoCell, NoCell}, st.LakeOutlet)
	assert.Equal(t, []float64{0, 0}, st.Flux)
}
