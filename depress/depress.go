package depress

import (
	"math"

	"github.com/katalvlaran/hydromesh/core"
)

// Resolve raises pit cells on the working heights in st until every land
// cell exceeds at least one neighbor by Epsilon, or MaxPasses is reached.
//
// A land cell (working height ≥ SeaLevel) whose lowest usable neighbor is
// at height h_min with h_min + Epsilon > h(cell) is raised to
// h_min + Epsilon. Water cells and cells skipped during mesh validation are
// left untouched. This is a bounded approximation, not a proof of full
// drainage; see the package comment for the degradation contract.
//
// Complexity: O(Result.Passes × N × d).
func Resolve(m *core.Mesh, st *core.State, opts ...Option) (Result, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		return Result{}, ErrNilMesh
	}
	if st == nil || len(st.Height) != m.NumCells() {
		return Result{}, ErrNilState
	}
	if cfg.Epsilon <= 0 || math.IsNaN(cfg.Epsilon) || math.IsInf(cfg.Epsilon, 0) {
		return Result{}, ErrBadEpsilon
	}
	if cfg.MaxPasses < 1 {
		return Result{}, ErrBadMaxPasses
	}

	n := m.NumCells()
	var res Result
	nbs := make([]int, 0, 8)

	// 2) Bounded leveling passes.
	for pass := 0; pass < cfg.MaxPasses; pass++ {
		raised := 0
		for id := 0; id < n; id++ {
			if !m.Usable(id) || st.Height[id] < cfg.SeaLevel {
				continue // water or skipped cell
			}
			nbs = m.Neighbors(id, nbs)
			if len(nbs) == 0 {
				continue
			}
			low := math.Inf(1)
			for _, nb := range nbs {
				if st.Height[nb] < low {
					low = st.Height[nb]
				}
			}
			// Already drains: strictly above the lowest neighbor by Epsilon.
			if st.Height[id] >= low+cfg.Epsilon {
				continue
			}
			st.Height[id] = low + cfg.Epsilon
			raised++
		}
		res.Passes++
		res.Raised += raised
		if raised == 0 {
			res.Converged = true

			break
		}
	}

	return res, nil
}
