package flux

import (
	"sort"

	"github.com/katalvlaran/hydromesh/core"
)

// Classify marks river cells from the accumulated flux and derives channel
// statistics. Reads st.Height, st.Down, st.Flux; writes st.IsRiver,
// st.RiverInDeg, st.Q.
//
// The threshold is the configured percentile of positive land flux, floored
// by AbsFloor. A land cell is a river cell when
//
//	flux ≥ threshold, or
//	flux ≥ 0.8·threshold and its drop to the successor reaches SlopeMin
//
// (the second clause keeps low-volume, steep headwaters). If fewer sources
// survive than max(MinSources, N/MinSourceDivisor), the threshold is
// lowered once to the k-th largest land flux (k = that minimum) and
// classification re-runs. The re-run is intentional two-pass policy and
// happens at most once.
//
// Complexity: O(N log N) for the percentile sort, O(N·1) per classification.
func Classify(m *core.Mesh, st *core.State, opts ...Option) (Stats, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		return Stats{}, ErrNilMesh
	}
	if st == nil || len(st.Flux) != m.NumCells() {
		return Stats{}, ErrNilState
	}
	if cfg.Percentile <= 0 || cfg.Percentile >= 1 {
		return Stats{}, ErrBadPercentile
	}

	// 2) Positive land fluxes, sorted ascending for the percentile cut.
	n := m.NumCells()
	fluxes := make([]float64, 0, n)
	for id := 0; id < n; id++ {
		if m.Usable(id) && st.Height[id] >= cfg.SeaLevel && st.Flux[id] > 0 {
			fluxes = append(fluxes, st.Flux[id])
		}
	}
	sort.Float64s(fluxes)

	threshold := cfg.AbsFloor
	if len(fluxes) > 0 {
		if p := percentile(fluxes, cfg.Percentile); p > threshold {
			threshold = p
		}
	}

	// 3) First classification pass.
	stats := classify(m, st, cfg, threshold)

	// 4) Safety net: guarantee a minimum number of sources on any map size.
	minSrc := cfg.MinSources
	if cfg.MinSourceDivisor >= 1 {
		if byArea := n / cfg.MinSourceDivisor; byArea > minSrc {
			minSrc = byArea
		}
	}
	if stats.Sources < minSrc && len(fluxes) > 0 {
		k := minSrc
		if k > len(fluxes) {
			k = len(fluxes)
		}
		threshold = fluxes[len(fluxes)-k] // k-th largest land flux
		stats = classify(m, st, cfg, threshold)
		stats.Relaxed = true
	}

	return stats, nil
}

// percentile returns the nearest-rank p-percentile of ascending sorted vals.
func percentile(vals []float64, p float64) float64 {
	idx := int(p*float64(len(vals)-1) + 0.5)

	return vals[idx]
}

// classify applies one full classification at the given threshold and
// recomputes in-degrees, discharge, and stats from scratch.
func classify(m *core.Mesh, st *core.State, cfg Options, threshold float64) Stats {
	n := m.NumCells()
	stats := Stats{Threshold: threshold}

	// River marking.
	for id := 0; id < n; id++ {
		st.IsRiver[id] = false
		st.RiverInDeg[id] = 0
		st.Q[id] = 0
		if !m.Usable(id) || st.Height[id] < cfg.SeaLevel {
			continue
		}
		f := st.Flux[id]
		if f >= threshold {
			st.IsRiver[id] = true

			continue
		}
		down := st.Down[id]
		if f >= 0.8*threshold && down != core.NoCell &&
			st.Height[id]-st.Height[down] >= cfg.SlopeMin {
			st.IsRiver[id] = true // steep headwater
		}
	}

	// In-degrees over river-to-river links only.
	for id := 0; id < n; id++ {
		if !st.IsRiver[id] {
			continue
		}
		if down := st.Down[id]; down != core.NoCell && st.IsRiver[down] {
			st.RiverInDeg[down]++
		}
	}

	// Discharge proxy and stats.
	for id := 0; id < n; id++ {
		if !st.IsRiver[id] {
			continue
		}
		st.Q[id] = st.Flux[id]
		stats.Rivers++
		if st.RiverInDeg[id] == 0 {
			stats.Sources++
		}
		if st.RiverInDeg[id] >= 2 {
			stats.Confluences++
		}
		down := st.Down[id]
		if down == core.NoCell || !st.IsRiver[down] || st.Height[down] < cfg.SeaLevel {
			stats.Mouths++
		}
	}

	return stats
}
