package depress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydromesh/core"
)

// chainMesh builds a 1-D chain of cells with the given heights; each cell
// neighbors its predecessor and successor. Tests put water at the chain
// ends so interior land always has a drain target, as real meshes do.
func chainMesh(t *testing.T, heights ...float64) (*core.Mesh, *core.State) {
	t.Helper()
	cells := make([]core.Cell, len(heights))
	for i, h := range heights {
		var nbs []int
		if i > 0 {
			nbs = append(nbs, i-1)
		}
		if i < len(heights)-1 {
			nbs = append(nbs, i+1)
		}
		cells[i] = core.Cell{ID: i, Neighbors: nbs, Height: h, Point: core.Point{X: float64(i)}}
	}
	m, err := core.NewMesh(cells)
	require.NoError(t, err)

	return m, core.NewState(m)
}

func TestResolve_RaisesSinglePit(t *testing.T) {
	// Cell 2 is a pit between two higher ridges; water at both ends.
	m, st := chainMesh(t, 0.1, 0.5, 0.4, 0.6, 0.1)

	res, err := Resolve(m, st, WithEpsilon(0.01))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Raised)

	// The pit must now exceed its lowest land neighbor by Epsilon.
	assert.InDelta(t, 0.51, st.Height[2], 1e-12)
	// Ridges drain toward the water ends and stay put.
	assert.Equal(t, 0.5, st.Height[1])
	assert.Equal(t, 0.6, st.Height[3])
}

func TestResolve_NeverTouchesWater(t *testing.T) {
	m, st := chainMesh(t, 0.1, 0.05, 0.1) // all below default sea level
	res, err := Resolve(m, st)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Zero(t, res.Raised)
	assert.Equal(t, []float64{0.1, 0.05, 0.1}, st.Height)
}

func TestResolve_RawMeshHeightsUntouched(t *testing.T) {
	m, st := chainMesh(t, 0.1, 0.5, 0.4, 0.6, 0.1)
	_, err := Resolve(m, st, WithEpsilon(0.01))
	require.NoError(t, err)
	assert.Equal(t, 0.4, m.Height(2), "mesh heights are read-only")
}

func TestResolve_CapDegradesGracefully(t *testing.T) {
	// A wide flat basin cannot level in a single pass.
	m, st := chainMesh(t, 0.1, 0.9, 0.3, 0.3, 0.3, 0.9, 0.1)

	res, err := Resolve(m, st, WithEpsilon(0.01), WithMaxPasses(1))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Passes)
	assert.Positive(t, res.Raised)
}

func TestResolve_ConvergesOnShallowBasin(t *testing.T) {
	m, st := chainMesh(t, 0.1, 0.5, 0.42, 0.40, 0.42, 0.5, 0.1)

	res, err := Resolve(m, st, WithEpsilon(0.01))
	require.NoError(t, err)
	require.True(t, res.Converged, "shallow basin should level within the default cap")

	// Every land cell must now exceed at least one neighbor by Epsilon.
	for id := 1; id <= 5; id++ {
		drains := false
		for _, nb := range m.Neighbors(id, nil) {
			if st.Height[id] >= st.Height[nb]+0.01 {
				drains = true
			}
		}
		assert.True(t, drains, "cell %d still cannot drain", id)
	}
}

func TestResolve_Validation(t *testing.T) {
	m, st := chainMesh(t, 0.5, 0.4)

	_, err := Resolve(nil, st)
	assert.ErrorIs(t, err, ErrNilMesh)

	_, err = Resolve(m, nil)
	assert.ErrorIs(t, err, ErrNilState)

	_, err = Resolve(m, st, WithEpsilon(0))
	assert.ErrorIs(t, err, ErrBadEpsilon)

	_, err = Resolve(m, st, WithMaxPasses(0))
	assert.ErrorIs(t, err, ErrBadMaxPasses)
}
