package pipeline_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/hydromesh/core"
	"github.com/katalvlaran/hydromesh/flux"
	"github.com/katalvlaran/hydromesh/pipeline"
	"github.com/katalvlaran/hydromesh/waterbody"
)

// square returns the unit-square ring with lower-left corner (x, y).
func square(x, y float64) []core.Point {
	return []core.Point{{X: x, Y: y}, {X: x + 1, Y: y}, {X: x + 1, Y: y + 1}, {X: x, Y: y + 1}}
}

// PipelineSuite exercises the full stage sequence on small meshes.
type PipelineSuite struct {
	suite.Suite
	params pipeline.Params
}

func (s *PipelineSuite) SetupTest() {
	s.params = pipeline.DefaultParams(waterbody.Rect{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3})
}

// plusMesh is the 5-cell plus graph with polygon rings: a wet land center,
// one ocean neighbor, three higher land arms.
func (s *PipelineSuite) plusMesh() *core.Mesh {
	m, err := core.NewMesh([]core.Cell{
		{ID: 0, Neighbors: []int{1, 2, 3, 4}, Height: 0.5, Precip: 5,
			Point: core.Point{X: 1.5, Y: 1.5}, Ring: square(1, 1)},
		{ID: 1, Neighbors: []int{0}, Height: 0.1,
			Point: core.Point{X: 1.5, Y: 0.5}, Ring: square(1, 0)},
		{ID: 2, Neighbors: []int{0}, Height: 0.6,
			Point: core.Point{X: 1.5, Y: 2.5}, Ring: square(1, 2)},
		{ID: 3, Neighbors: []int{0}, Height: 0.7,
			Point: core.Point{X: 0.5, Y: 1.5}, Ring: square(0, 1)},
		{ID: 4, Neighbors: []int{0}, Height: 0.8,
			Point: core.Point{X: 2.5, Y: 1.5}, Ring: square(2, 1)},
	})
	require.NoError(s.T(), err)

	return m
}

// TestPlusGraph: the wet center is source and mouth, with one Bezier
// segment reaching into the ocean cell.
func (s *PipelineSuite) TestPlusGraph() {
	rep, err := pipeline.New(s.params).Run(s.plusMesh())
	require.NoError(s.T(), err)

	require.Equal(s.T(), 1, rep.Channels.Sources)
	require.Equal(s.T(), 1, rep.Channels.Mouths)
	require.True(s.T(), rep.State.IsRiver[0])
	require.Equal(s.T(), 1, rep.State.Down[0], "center drains into the ocean cell")

	require.Len(s.T(), rep.Rivers, 1)
	require.Equal(s.T(), 0, rep.Rivers[0].RiverID)
	require.Len(s.T(), rep.Rivers[0].Samples, 2, "river runs from center into the estuary")
	require.Len(s.T(), rep.Segments, 1)
	require.Equal(s.T(), core.Point{X: 1.5, Y: 1.5}, rep.Segments[0].Start)
	require.Equal(s.T(), core.Point{X: 1.5, Y: 0.5}, rep.Segments[0].End)
	require.Positive(s.T(), rep.Segments[0].Width)

	require.Empty(s.T(), rep.Lakes, "open drainage holds no lakes")
	require.NotEqual(s.T(), rep.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

// TestPlusGraphComponents: one ocean polygon at the border, one land
// component spanning center and arms.
func (s *PipelineSuite) TestPlusGraphComponents() {
	rep, err := pipeline.New(s.params).Run(s.plusMesh())
	require.NoError(s.T(), err)
	require.Len(s.T(), rep.Kinds, 5)

	var oceans, lands int
	for _, c := range rep.Components {
		switch c.Kind {
		case waterbody.KindOcean:
			oceans++
		case waterbody.KindLand:
			lands++
			require.Len(s.T(), c.Members, 4)
		}
	}
	require.Equal(s.T(), 1, oceans)
	require.Equal(s.T(), 1, lands)
	require.Equal(s.T(), waterbody.KindOcean, rep.Kinds[1])
	require.Equal(s.T(), waterbody.KindLand, rep.Kinds[0])
}

// TestEnclosedBasinFormsLake: a chain with a basin behind a saddle yields
// exactly one lake region with a valid outlet — and never a crash.
func (s *PipelineSuite) TestEnclosedBasinFormsLake() {
	cells := []core.Cell{
		{ID: 0, Neighbors: []int{1}, Height: 0.1, Point: core.Point{X: 0}},
		{ID: 1, Neighbors: []int{0, 2}, Height: 0.5, Point: core.Point{X: 1}},
		{ID: 2, Neighbors: []int{1, 3}, Height: 0.3, Point: core.Point{X: 2}},
		{ID: 3, Neighbors: []int{2}, Height: 0.6, Point: core.Point{X: 3}},
	}
	m, err := core.NewMesh(cells)
	require.NoError(s.T(), err)

	rep, err := pipeline.New(s.params).Run(m)
	require.NoError(s.T(), err)

	require.Len(s.T(), rep.Lakes, 1)
	require.Equal(s.T(), []int{2}, rep.Lakes[0].Cells)
	require.Equal(s.T(), 1, rep.Lakes[0].Outlet)
	require.True(s.T(), rep.State.IsLake[2])
}

// TestDeterministicSegments: same seed, same mesh → byte-identical
// geometry; only the RunID differs.
func (s *PipelineSuite) TestDeterministicSegments() {
	p := pipeline.New(s.params)
	a, err := p.Run(s.plusMesh())
	require.NoError(s.T(), err)
	b, err := p.Run(s.plusMesh())
	require.NoError(s.T(), err)

	require.True(s.T(), reflect.DeepEqual(a.Segments, b.Segments))
	require.True(s.T(), reflect.DeepEqual(a.Rivers, b.Rivers))
	require.NotEqual(s.T(), a.RunID, b.RunID)
}

// TestMalformedCellsReported: a cell without neighbors is skipped with a
// diagnostic while the rest of the mesh still simulates.
func (s *PipelineSuite) TestMalformedCellsReported() {
	m, err := core.NewMesh([]core.Cell{
		{ID: 0, Neighbors: []int{1, 2}, Height: 0.5, Precip: 5, Point: core.Point{X: 1}},
		{ID: 1, Neighbors: []int{0}, Height: 0.1, Point: core.Point{X: 2}},
		{ID: 2, Neighbors: nil, Height: 0.9, Point: core.Point{X: 3}}, // isolated
	})
	require.NoError(s.T(), err)

	rep, err := pipeline.New(s.params).Run(m)
	require.NoError(s.T(), err)
	require.Len(s.T(), rep.Diags, 1)
	require.Equal(s.T(), 2, rep.Diags[0].Cell)
	require.True(s.T(), rep.State.IsRiver[0], "well-formed cells keep working")
}

// TestNilMesh and bad stage parameters abort with sentinels.
func (s *PipelineSuite) TestErrorPropagation() {
	_, err := pipeline.New(s.params).Run(nil)
	require.ErrorIs(s.T(), err, pipeline.ErrNilMesh)

	bad := s.params
	bad.Percentile = 1.5
	_, err = pipeline.New(bad).Run(s.plusMesh())
	require.ErrorIs(s.T(), err, flux.ErrBadPercentile)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}
