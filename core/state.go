package core

// State holds every per-cell field derived by the hydrology stages.
// It is created once per run by the orchestrator and passed by reference
// through the sequential stages; no stage keeps private derived state.
//
// Field ownership (writer → readers):
//
//	Height      - depress writes (raised pits); flux reads.
//	Down, Flux  - flux.Route writes; flux.Classify and pipeline read.
//	IsRiver, RiverInDeg, Q - flux.Classify writes; pipeline reads.
//	Spill, IsLake, LakeID, LakeOutlet - lakes.Detect writes.
//
// All slices are indexed by cell id and sized to Mesh.NumCells().
type State struct {
	// Height is the working elevation: a copy of the mesh heights that
	// depression resolution may raise. The raw mesh heights are never mutated.
	Height []float64

	// Down is the downhill successor id per cell, or NoCell.
	Down []int

	// Flux is the accumulated flow through each cell.
	Flux []float64

	// Q is the discharge proxy sampled for river width assignment;
	// zero for non-river cells.
	Q []float64

	// Spill is the minimal water elevation at which each cell's water
	// escapes toward open water; zero until lake detection runs.
	Spill []float64

	// IsRiver marks classified channel cells.
	IsRiver []bool

	// RiverInDeg counts upstream river contributors per river cell.
	RiverInDeg []int

	// IsLake marks lake-member cells.
	IsLake []bool

	// LakeID is the lake-region id per member cell, or NoLake.
	LakeID []int

	// LakeOutlet is the outlet cell of the member's lake region, or NoCell
	// for endorheic regions and non-members.
	LakeOutlet []int
}

// NewState allocates a State sized to m with all defaults applied:
// Height copies the mesh heights, Down and LakeOutlet are NoCell,
// LakeID is NoLake, and every numeric field is zero.
//
// Complexity: O(N) time and memory.
func NewState(m *Mesh) *State {
	n := m.NumCells()
	st := &State{
		Height:     make([]float64, n),
		Down:       make([]int, n),
		Flux:       make([]float64, n),
		Q:          make([]float64, n),
		Spill:      make([]float64, n),
		IsRiver:    make([]bool, n),
		RiverInDeg: make([]int, n),
		IsLake:     make([]bool, n),
		LakeID:     make([]int, n),
		LakeOutlet: make([]int, n),
	}
	for i := 0; i < n; i++ {
		st.Height[i] = m.Height(i)
		st.Down[i] = NoCell
		st.LakeID[i] = NoLake
		st.LakeOutlet[i] = NoCell
	}

	return st
}
