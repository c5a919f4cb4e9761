package core

import (
	"fmt"
	"math"
)

// Mesh is an immutable irregular cell graph. Build one with NewMesh; all
// hydrology stages read from it and never write to it.
type Mesh struct {
	cells  []Cell
	usable []bool
	diags  []Diag
}

// NewMesh validates cells and builds a Mesh. The input slice is deep-copied
// so later caller mutation cannot corrupt a running simulation.
//
// Validation is defensive: a cell whose ID does not match its index, whose
// height is NaN or infinite, whose neighbor list is empty, or that
// references an out-of-range or self neighbor is marked unusable and
// recorded in Diags(); well-formed cells are unaffected. Unusable cells are
// invisible to Neighbors and are skipped by every stage.
//
// Returns ErrEmptyMesh if cells is nil or empty.
//
// Complexity: O(N·d) time and memory, d = average neighbor count.
func NewMesh(cells []Cell) (*Mesh, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyMesh
	}
	n := len(cells)

	m := &Mesh{
		cells:  make([]Cell, n),
		usable: make([]bool, n),
	}
	for i, c := range cells {
		// Deep copy per cell to decouple from the caller's slices.
		cc := c
		cc.Neighbors = append([]int(nil), c.Neighbors...)
		cc.Ring = append([]Point(nil), c.Ring...)
		m.cells[i] = cc

		if reason := checkCell(i, &cc, n); reason != "" {
			m.diags = append(m.diags, Diag{Cell: i, Reason: reason})
			continue
		}
		m.usable[i] = true
	}

	return m, nil
}

// checkCell returns a non-empty reason string if cell i is malformed.
func checkCell(i int, c *Cell, n int) string {
	if c.ID != i {
		return fmt.Sprintf("id %d does not match slice index %d", c.ID, i)
	}
	if math.IsNaN(c.Height) || math.IsInf(c.Height, 0) {
		return "non-finite height"
	}
	if len(c.Neighbors) == 0 {
		return "no neighbor data"
	}
	for _, nb := range c.Neighbors {
		if nb < 0 || nb >= n {
			return fmt.Sprintf("neighbor id %d out of range", nb)
		}
		if nb == i {
			return "self-referential neighbor"
		}
	}

	return ""
}

// NumCells returns the total number of cells, usable or not.
func (m *Mesh) NumCells() int { return len(m.cells) }

// Usable reports whether cell id passed validation. Out-of-range ids are
// not usable.
func (m *Mesh) Usable(id int) bool {
	return id >= 0 && id < len(m.usable) && m.usable[id]
}

// Diags returns the diagnostics recorded during construction, one per
// skipped cell, in cell-id order.
func (m *Mesh) Diags() []Diag { return m.diags }

// Height returns the raw terrain elevation of cell id.
// Panics on out-of-range ids like any slice access would.
func (m *Mesh) Height(id int) float64 { return m.cells[id].Height }

// Precip returns the precipitation input of cell id.
func (m *Mesh) Precip(id int) float64 { return m.cells[id].Precip }

// PointOf returns the plotting coordinate of cell id. This is the single
// required coordinate capability of the input contract; no field guessing
// happens anywhere downstream.
func (m *Mesh) PointOf(id int) (Point, error) {
	if id < 0 || id >= len(m.cells) {
		return Point{}, fmt.Errorf("%w: %d", ErrCellRange, id)
	}

	return m.cells[id].Point, nil
}

// Ring returns the polygon boundary of cell id (shared backing array;
// callers must not mutate it).
func (m *Mesh) Ring(id int) []Point { return m.cells[id].Ring }

// Neighbors appends the usable neighbors of cell id to dst and returns it.
// Unusable neighbors are filtered out, so stages never route into a
// malformed cell. Passing a reused dst avoids per-call allocation in the
// hot traversal loops.
//
// Complexity: O(d).
func (m *Mesh) Neighbors(id int, dst []int) []int {
	dst = dst[:0]
	if !m.Usable(id) {
		return dst
	}
	for _, nb := range m.cells[id].Neighbors {
		if m.usable[nb] {
			dst = append(dst, nb)
		}
	}

	return dst
}

// IsWater reports whether cell id sits below seaLevel on the raw terrain.
func (m *Mesh) IsWater(id int, seaLevel float64) bool {
	return m.cells[id].Height < seaLevel
}

// Area returns the polygon area of cell id via the shoelace formula,
// or 0 if the cell has fewer than three ring vertices.
//
// Complexity: O(len(Ring)).
func (m *Mesh) Area(id int) float64 {
	ring := m.cells[id].Ring
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}

	return math.Abs(sum) / 2
}
