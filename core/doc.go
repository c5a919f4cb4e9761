// Package core defines the central Mesh, Cell, and State types shared by
// every hydrology stage in hydromesh.
//
// A Mesh is an immutable snapshot of an irregular planar cell graph:
// polygonal cells with explicit neighbor adjacency and scalar height and
// precipitation fields. The mesh is supplied by the caller (typically built
// from a Voronoi tessellation); hydromesh never constructs cell geometry
// itself.
//
// Construction is defensive rather than fail-fast: a cell with a non-finite
// height, an empty neighbor list, or an out-of-range neighbor reference is
// excluded from the usable set and reported as a Diag, while the remaining
// well-formed cells keep working. Only a nil or empty cell slice is an
// error (ErrEmptyMesh).
//
// A State is the single mutable simulation-state structure owned by the
// orchestrator and passed by reference through the sequential stages. All
// derived per-cell fields (working height, downhill successor, flux,
// discharge, spill height, river and lake markers) are declared upfront
// with defined defaults, so every stage knows exactly which fields it reads
// and which it writes.
//
// Errors:
//
//	ErrEmptyMesh   - nil or empty cell slice passed to NewMesh.
//	ErrCellRange   - a cell id is outside [0, NumCells).
package core
