// Package lakes detects enclosed lakes on an irregular cell graph via
// priority-flood.
//
// Priority-flood is a min-priority-queue flood fill over the RAW mesh
// heights (never the depression-resolved working copy, and heights are
// never mutated). The queue is seeded with every water cell at its own
// height; popping the lowest frontier cell and flooding outward computes,
// for every cell, the minimal water elevation at which its water escapes
// toward open water — the spill height. A cell whose spill height exceeds
// both its own height and sea level (by Epsilon) would have to pond before
// escaping, so it is a lake member.
//
// Members with matching spill heights are grouped into contiguous lake
// regions; each region's outlet is found by walking predecessor pointers
// toward the water side. A region with no reachable outlet is endorheic —
// reported as Outlet = core.NoCell, never an error.
//
// Maps with no water at all fall back to seeding from the
// lowest-SeedPercentile cells; a perfectly flat map degenerates to one
// arbitrary seed drawn from the injected random source (the only
// nondeterminism in this package).
//
// Complexity:
//
//	– Time:  O(N log N) heap operations + O(N·d) flood fill.
//	– Space: O(N).
//
// Errors (sentinel):
//
//	– ErrNilMesh, ErrNilState  – missing inputs.
//	– ErrBadEpsilon            – Epsilon ≤ 0 or non-finite.
//	– ErrBadSeedPercentile     – SeedPercentile outside (0,1).
package lakes

import (
	"errors"
	"math/rand"
)

// Sentinel errors returned by Detect.
var (
	// ErrNilMesh indicates a nil *core.Mesh input.
	ErrNilMesh = errors.New("lakes: mesh is nil")

	// ErrNilState indicates a nil or mis-sized *core.State input.
	ErrNilState = errors.New("lakes: state is nil or does not match mesh")

	// ErrBadEpsilon indicates Epsilon is zero, negative, or non-finite.
	ErrBadEpsilon = errors.New("lakes: Epsilon must be a positive finite value")

	// ErrBadSeedPercentile indicates SeedPercentile outside the open interval (0,1).
	ErrBadSeedPercentile = errors.New("lakes: SeedPercentile must lie in (0,1)")
)

// Lake is one detected lake region.
type Lake struct {
	// ID is the dense region id, also written to State.LakeID of members.
	ID int

	// Spill is the region's water surface elevation: the spill height
	// shared (within Epsilon) by all members.
	Spill float64

	// Cells lists member cell ids in ascending order.
	Cells []int

	// Outlet is the cell over which the region drains, or core.NoCell for
	// endorheic basins.
	Outlet int
}

// Options configures lake detection.
type Options struct {
	// SeaLevel splits water from land on the raw heights.
	SeaLevel float64

	// Epsilon is the ponding margin: spill must exceed both the cell height
	// and sea level by Epsilon for the cell to count as a lake member, and
	// it is the tolerance for grouping members by spill height.
	Epsilon float64

	// SeedPercentile selects fallback seeds (the lowest fraction of cells
	// by height) when the map has no water at all.
	SeedPercentile float64

	// Rand breaks the seed tie on a perfectly flat waterless map. May be
	// nil; the first cell is used then.
	Rand *rand.Rand
}

// DefaultOptions returns the standard detection parameters:
// SeaLevel=0.2, Epsilon=1e-4, SeedPercentile=0.05.
func DefaultOptions() Options {
	return Options{
		SeaLevel:       0.2,
		Epsilon:        1e-4,
		SeedPercentile: 0.05,
	}
}

// Option mutates Options before a run.
type Option func(*Options)

// WithSeaLevel overrides the water/land elevation split.
func WithSeaLevel(level float64) Option {
	return func(o *Options) { o.SeaLevel = level }
}

// WithEpsilon overrides the ponding margin.
func WithEpsilon(eps float64) Option {
	return func(o *Options) { o.Epsilon = eps }
}

// WithSeedPercentile overrides the waterless-map fallback seed fraction.
func WithSeedPercentile(p float64) Option {
	return func(o *Options) { o.SeedPercentile = p }
}

// WithRand injects the random source for the flat-map seed fallback.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

// floodItem is one heap entry: a cell and its spill priority.
type floodItem struct {
	cell  int
	spill float64
}

// floodPQ is a min-heap of floodItem ordered by spill ascending, cell id
// ascending on ties for determinism. Entries are pushed lazily; each cell
// is visited at most once because visiting is marked at push time.
type floodPQ []floodItem

func (pq floodPQ) Len() int { return len(pq) }

func (pq floodPQ) Less(i, j int) bool {
	if pq[i].spill != pq[j].spill {
		return pq[i].spill < pq[j].spill
	}

	return pq[i].cell < pq[j].cell
}

func (pq floodPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push is called by heap.Push; x must be a floodItem.
func (pq *floodPQ) Push(x interface{}) { *pq = append(*pq, x.(floodItem)) }

// Pop is called by heap.Pop.
func (pq *floodPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
