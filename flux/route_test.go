package flux

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydromesh/core"
)

// buildMesh wraps core.NewMesh with the usual test boilerplate.
func buildMesh(t *testing.T, cells []core.Cell) (*core.Mesh, *core.State) {
	t.Helper()
	m, err := core.NewMesh(cells)
	require.NoError(t, err)

	return m, core.NewState(m)
}

// gridMesh builds a w×h 4-connected grid with per-cell heights from fn(x,y).
func gridMesh(t *testing.T, w, h int, fn func(x, y int) float64) (*core.Mesh, *core.State) {
	t.Helper()
	cells := make([]core.Cell, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := y*w + x
			var nbs []int
			if x > 0 {
				nbs = append(nbs, id-1)
			}
			if x < w-1 {
				nbs = append(nbs, id+1)
			}
			if y > 0 {
				nbs = append(nbs, id-w)
			}
			if y < h-1 {
				nbs = append(nbs, id+w)
			}
			cells[id] = core.Cell{
				ID: id, Neighbors: nbs, Height: fn(x, y),
				Point: core.Point{X: float64(x), Y: float64(y)},
			}
		}
	}

	return buildMesh(t, cells)
}

// ridgeHeight is a deterministic bumpy height field: water at the border,
// land rising toward the middle with pseudo-random wiggle.
func ridgeHeight(w, h int) func(x, y int) float64 {
	return func(x, y int) float64 {
		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			return 0.1
		}
		wiggle := 0.05 * math.Abs(math.Sin(float64(x*7+y*13)*12.9898))
		dx := float64(x) - float64(w-1)/2
		dy := float64(y) - float64(h-1)/2

		return 0.3 + 0.4/(1+0.3*(dx*dx+dy*dy)) + wiggle
	}
}

func TestRoute_DownInvariant(t *testing.T) {
	m, st := gridMesh(t, 9, 9, ridgeHeight(9, 9))

	_, err := Route(m, st)
	require.NoError(t, err)

	for id := 0; id < m.NumCells(); id++ {
		down := st.Down[id]
		if down == core.NoCell {
			continue
		}
		assert.LessOrEqual(t, st.Height[down], st.Height[id],
			"cell %d routes uphill to %d", id, down)
		assert.Contains(t, m.Neighbors(id, nil), down,
			"cell %d routes to non-neighbor %d", id, down)
		assert.NotEqual(t, id, down)
	}
}

func TestRoute_WaterCellsNeverRoute(t *testing.T) {
	// Two adjacent water cells at different depths: neither routes.
	m, st := buildMesh(t, []core.Cell{
		{ID: 0, Neighbors: []int{1}, Height: 0.15},
		{ID: 1, Neighbors: []int{0}, Height: 0.05},
	})

	res, err := Route(m, st)
	require.NoError(t, err)
	assert.Equal(t, core.NoCell, st.Down[0])
	assert.Equal(t, core.NoCell, st.Down[1])
	assert.Equal(t, 2, res.Sinks)
	assert.Zero(t, res.Routed)
}

func TestRoute_TieIsSink(t *testing.T) {
	// Center has two neighbors tied for lowest: no single steepest descent.
	m, st := buildMesh(t, []core.Cell{
		{ID: 0, Neighbors: []int{1, 2}, Height: 0.5},
		{ID: 1, Neighbors: []int{0}, Height: 0.3},
		{ID: 2, Neighbors: []int{0}, Height: 0.3},
	})

	_, err := Route(m, st)
	require.NoError(t, err)
	assert.Equal(t, core.NoCell, st.Down[0])
}

func TestRoute_TopologicalConservesFlux(t *testing.T) {
	m, st := gridMesh(t, 11, 11, ridgeHeight(11, 11))

	res, err := Route(m, st)
	require.NoError(t, err)
	require.Positive(t, res.TotalInput)
	assert.InDelta(t, res.TotalInput, res.Emitted, 1e-9,
		"topological accumulation must conserve flux exactly")
}

func TestRoute_FluxMonotoneDownhill(t *testing.T) {
	m, st := gridMesh(t, 9, 9, ridgeHeight(9, 9))

	_, err := Route(m, st)
	require.NoError(t, err)

	for id := 0; id < m.NumCells(); id++ {
		if down := st.Down[id]; down != core.NoCell {
			assert.GreaterOrEqual(t, st.Flux[down], st.Flux[id],
				"flux must be non-decreasing along the downhill path")
		}
	}
}

func TestRoute_RelaxationBoundedError(t *testing.T) {
	m, st := gridMesh(t, 11, 11, ridgeHeight(11, 11))

	res, err := Route(m, st, WithMethod(MethodRelaxation), WithRelaxation(60, 0.5))
	require.NoError(t, err)
	require.Positive(t, res.TotalInput)

	// The relaxation residual shrinks with pass count; at 60 half-fraction
	// passes on an 11×11 grid it is far below 1% of the input.
	assert.LessOrEqual(t, res.Emitted, res.TotalInput+1e-9)
	assert.InDelta(t, res.TotalInput, res.Emitted, 0.01*res.TotalInput)
}

func TestRoute_Validation(t *testing.T) {
	m, st := buildMesh(t, []core.Cell{
		{ID: 0, Neighbors: []int{1}, Height: 0.5},
		{ID: 1, Neighbors: []int{0}, Height: 0.4},
	})

	_, err := Route(nil, st)
	assert.ErrorIs(t, err, ErrNilMesh)

	_, err = Route(m, nil)
	assert.ErrorIs(t, err, ErrNilState)

	_, err = Route(m, st, WithMethod(Method(42)))
	assert.ErrorIs(t, err, ErrBadMethod)

	_, err = Route(m, st, WithMethod(MethodRelaxation), WithRelaxation(0, 0.5))
	assert.ErrorIs(t, err, ErrBadRelaxation)

	_, err = Route(m, st, WithMethod(MethodRelaxation), WithRelaxation(10, 1.5))
	assert.ErrorIs(t, err, ErrBadRelaxation)
}
