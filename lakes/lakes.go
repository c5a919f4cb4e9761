package lakes

import (
	"container/heap"
	"math"
	"sort"

	"github.com/katalvlaran/hydromesh/core"
)

// Detect runs priority-flood over the raw mesh heights and returns the
// lake regions. Writes st.Spill, st.IsLake, st.LakeID, st.LakeOutlet;
// reads nothing else from st, and never touches heights.
//
// See the package comment for the algorithm; the phases are:
//
//  1. seed the min-heap with water cells (or the low-percentile fallback),
//  2. flood: pop lowest, stamp unvisited neighbors with
//     spill = max(neighbor height, popped spill) and a predecessor pointer
//     toward the water side,
//  3. mark members (spill exceeds height and sea level by Epsilon),
//  4. group contiguous members with matching spill into regions,
//  5. pick each region's outlet via the predecessor chains.
//
// Complexity: O(N log N + N·d).
func Detect(m *core.Mesh, st *core.State, opts ...Option) ([]Lake, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		return nil, ErrNilMesh
	}
	if st == nil || len(st.Spill) != m.NumCells() {
		return nil, ErrNilState
	}
	if cfg.Epsilon <= 0 || math.IsNaN(cfg.Epsilon) || math.IsInf(cfg.Epsilon, 0) {
		return nil, ErrBadEpsilon
	}
	if cfg.SeedPercentile <= 0 || cfg.SeedPercentile >= 1 {
		return nil, ErrBadSeedPercentile
	}

	n := m.NumCells()
	visited := make([]bool, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = core.NoCell
		st.Spill[i] = 0
		st.IsLake[i] = false
		st.LakeID[i] = core.NoLake
		st.LakeOutlet[i] = core.NoCell
	}

	// 2) Seed and flood.
	pq := make(floodPQ, 0, n)
	heap.Init(&pq)
	for _, id := range seeds(m, cfg) {
		visited[id] = true
		st.Spill[id] = m.Height(id)
		heap.Push(&pq, floodItem{cell: id, spill: m.Height(id)})
	}
	if pq.Len() == 0 {
		return nil, nil // no usable cells at all
	}

	nbs := make([]int, 0, 8)
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(floodItem)
		for _, nb := range m.Neighbors(item.cell, nbs) {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			spill := m.Height(nb)
			if item.spill > spill {
				spill = item.spill
			}
			st.Spill[nb] = spill
			prev[nb] = item.cell // pointer toward the water side
			heap.Push(&pq, floodItem{cell: nb, spill: spill})
		}
	}

	// 3) Lake membership: water would pond here before escaping.
	member := make([]bool, n)
	for id := 0; id < n; id++ {
		if !visited[id] {
			continue
		}
		if st.Spill[id] > m.Height(id)+cfg.Epsilon &&
			st.Spill[id] > cfg.SeaLevel+cfg.Epsilon {
			member[id] = true
			st.IsLake[id] = true
		}
	}

	// 4) Group members into regions by contiguity and matching spill.
	var regions []Lake
	for id := 0; id < n; id++ {
		if !member[id] || st.LakeID[id] != core.NoLake {
			continue
		}
		lake := Lake{ID: len(regions), Spill: st.Spill[id], Outlet: core.NoCell}
		queue := []int{id}
		st.LakeID[id] = lake.ID
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			lake.Cells = append(lake.Cells, u)
			for _, nb := range m.Neighbors(u, nbs) {
				if !member[nb] || st.LakeID[nb] != core.NoLake {
					continue
				}
				if math.Abs(st.Spill[nb]-lake.Spill) > cfg.Epsilon {
					continue // different basin stacked next door
				}
				st.LakeID[nb] = lake.ID
				queue = append(queue, nb)
			}
		}
		sort.Ints(lake.Cells)

		// 5) Outlet: first non-member on a predecessor chain whose spill
		//    matches the region's. Unreachable → endorheic.
		lake.Outlet = findOutlet(&lake, member, prev, st, cfg)
		for _, u := range lake.Cells {
			st.LakeOutlet[u] = lake.Outlet
		}
		regions = append(regions, lake)
	}

	return regions, nil
}

// findOutlet walks each member's predecessor chain toward the water side
// and returns the first non-member cell whose spill height matches the
// region's within Epsilon, or core.NoCell if no chain yields one.
func findOutlet(lake *Lake, member []bool, prev []int, st *core.State, cfg Options) int {
	for _, u := range lake.Cells {
		for j := prev[u]; j != core.NoCell; j = prev[j] {
			if member[j] {
				continue // still inside some lake; keep walking down
			}
			if math.Abs(st.Spill[j]-lake.Spill) <= cfg.Epsilon {
				return j
			}

			break // chain left the basin at a mismatched level
		}
	}

	return core.NoCell
}

// seeds returns the flood seed cells: all usable water cells, or the
// lowest-SeedPercentile usable cells when the map is waterless. On a
// perfectly flat waterless map the percentile cut is meaningless, so one
// arbitrary cell is drawn from cfg.Rand (cell 0 without one).
func seeds(m *core.Mesh, cfg Options) []int {
	n := m.NumCells()
	var water []int
	usable := make([]int, 0, n)
	flat := true
	var h0 float64
	first := true
	for id := 0; id < n; id++ {
		if !m.Usable(id) {
			continue
		}
		usable = append(usable, id)
		if first {
			h0, first = m.Height(id), false
		} else if m.Height(id) != h0 {
			flat = false
		}
		if m.IsWater(id, cfg.SeaLevel) {
			water = append(water, id)
		}
	}
	if len(water) > 0 {
		return water
	}
	if len(usable) == 0 {
		return nil
	}
	if flat {
		pick := 0
		if cfg.Rand != nil {
			pick = cfg.Rand.Intn(len(usable))
		}

		return usable[pick : pick+1]
	}

	// Lowest-percentile fallback, ties broken by id via the stable order.
	byHeight := append([]int(nil), usable...)
	sort.SliceStable(byHeight, func(a, b int) bool {
		return m.Height(byHeight[a]) < m.Height(byHeight[b])
	})
	k := int(cfg.SeedPercentile * float64(len(byHeight)))
	if k < 1 {
		k = 1
	}

	return byHeight[:k]
}
