// Point, Cell, Diag declarations and sentinel errors.

package core

import "errors"

// Sentinel errors for core mesh operations.
var (
	// ErrEmptyMesh indicates a nil or empty cell slice was passed to NewMesh.
	ErrEmptyMesh = errors.New("core: mesh must contain at least one cell")

	// ErrCellRange indicates an operation referenced a cell id outside [0, NumCells).
	ErrCellRange = errors.New("core: cell id out of range")
)

// NoCell marks an absent cell reference (no downhill successor, no outlet).
const NoCell = -1

// NoLake marks a cell that belongs to no lake region.
const NoLake = -1

// Point is a plotting coordinate on the map plane.
type Point struct {
	X, Y float64
}

// Cell is one polygonal cell of the input graph.
//
// ID must equal the cell's index in the slice passed to NewMesh; ids are
// dense and zero-based. Neighbors lists adjacent cell ids (unordered).
// Height is normalized terrain elevation in [0,1]; Precip is the
// precipitation input used to seed flux accumulation.
type Cell struct {
	// ID is the dense, zero-based identifier of this cell.
	ID int

	// Point is the cell's plotting coordinate (polygon site).
	Point Point

	// Ring is the cell's polygon boundary, in order, without a closing
	// repeat of the first vertex. May be empty for callers that only run
	// the flow stages.
	Ring []Point

	// Neighbors holds ids of adjacent cells. A usable cell has at least one.
	Neighbors []int

	// Height is terrain elevation, expected in [0,1].
	Height float64

	// Precip is the precipitation input for this cell.
	Precip float64
}

// Diag reports one malformed cell skipped during mesh construction.
// Diagnostics are informational; they never abort a run.
type Diag struct {
	// Cell is the offending cell id (slice index).
	Cell int

	// Reason is a short human-readable description of the defect.
	Reason string
}
