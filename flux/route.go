package flux

import (
	"math"
	"sort"

	"github.com/katalvlaran/hydromesh/core"
)

// Route assigns each land cell its steepest-descent successor and
// initializes flux, then accumulates flux downstream with the configured
// Method. Reads st.Height (working, depression-resolved); writes st.Down
// and st.Flux.
//
// Successor rule: the single strictly lowest neighbor on the working
// heights. Ties and cells with no lower neighbor become sinks (Down =
// core.NoCell). Water cells (working height < SeaLevel) are always sinks.
//
// Complexity: O(N·d + N log N) with MethodTopological,
// O(N·d + RelaxPasses·N) with MethodRelaxation.
func Route(m *core.Mesh, st *core.State, opts ...Option) (RouteResult, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		return RouteResult{}, ErrNilMesh
	}
	if st == nil || len(st.Height) != m.NumCells() {
		return RouteResult{}, ErrNilState
	}
	if cfg.Method != MethodTopological && cfg.Method != MethodRelaxation {
		return RouteResult{}, ErrBadMethod
	}
	if cfg.Method == MethodRelaxation &&
		(cfg.RelaxPasses < 1 || cfg.RelaxFraction <= 0 || cfg.RelaxFraction > 1) {
		return RouteResult{}, ErrBadRelaxation
	}

	n := m.NumCells()
	var res RouteResult
	nbs := make([]int, 0, 8)

	// 2) Steepest-descent successor per land cell, flux initialization.
	for id := 0; id < n; id++ {
		st.Down[id] = core.NoCell
		st.Flux[id] = 0
		if !m.Usable(id) {
			continue
		}
		if st.Height[id] < cfg.SeaLevel {
			res.Sinks++ // water cells never route

			continue
		}

		st.Flux[id] = cfg.RunoffBaseline + m.Precip(id)
		res.TotalInput += st.Flux[id]

		// The successor must be the SINGLE strictly lowest neighbor; a tie
		// for the minimum leaves the cell a sink.
		low, down, ties := st.Height[id], core.NoCell, 0
		for _, nb := range m.Neighbors(id, nbs) {
			switch h := st.Height[nb]; {
			case h < low:
				low, down, ties = h, nb, 1
			case h == low && down != core.NoCell:
				ties++
			}
		}
		if ties > 1 {
			down = core.NoCell
		}
		st.Down[id] = down
		if down == core.NoCell {
			res.Sinks++
		} else {
			res.Routed++
		}
	}

	// 3) Downstream accumulation.
	switch cfg.Method {
	case MethodTopological:
		accumulateTopological(m, st, cfg)
	case MethodRelaxation:
		accumulateRelaxation(m, st, cfg)
	}

	// 4) Emitted = flux that reached the sinks.
	for id := 0; id < n; id++ {
		if m.Usable(id) && st.Down[id] == core.NoCell {
			res.Emitted += st.Flux[id]
		}
	}

	return res, nil
}

// accumulateTopological pushes each land cell's full flux into its
// successor exactly once, visiting cells in descending working-height
// order (ties broken by id for determinism). Flux is non-decreasing along
// any downhill path and conservation is exact.
func accumulateTopological(m *core.Mesh, st *core.State, cfg Options) {
	n := m.NumCells()
	order := make([]int, 0, n)
	for id := 0; id < n; id++ {
		if m.Usable(id) && st.Height[id] >= cfg.SeaLevel {
			order = append(order, id)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		ha, hb := st.Height[order[a]], st.Height[order[b]]
		if ha != hb {
			return ha > hb
		}

		return order[a] < order[b]
	})

	for _, id := range order {
		if down := st.Down[id]; down != core.NoCell {
			st.Flux[down] += st.Flux[id]
		}
	}
}

// accumulateRelaxation forwards RelaxFraction of each cell's unrouted flux
// per pass, for RelaxPasses passes. The unrouted store starts at the
// initial inputs and drains toward the sinks; whatever remains after the
// last pass is the conservation error.
func accumulateRelaxation(m *core.Mesh, st *core.State, cfg Options) {
	n := m.NumCells()
	pending := make([]float64, n)
	for id := 0; id < n; id++ {
		if m.Usable(id) && st.Height[id] >= cfg.SeaLevel {
			pending[id] = st.Flux[id]
		}
	}

	for pass := 0; pass < cfg.RelaxPasses; pass++ {
		moved := false
		for id := 0; id < n; id++ {
			down := st.Down[id]
			if down == core.NoCell || pending[id] == 0 {
				continue
			}
			amt := cfg.RelaxFraction * pending[id]
			if amt <= 0 || math.IsNaN(amt) {
				continue
			}
			pending[id] -= amt
			pending[down] += amt
			st.Flux[down] += amt
			moved = true
		}
		if !moved {
			break
		}
	}
}
