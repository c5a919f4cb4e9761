// Package pipeline drives the full terrain-hydrology simulation:
// depression resolution → flow routing and accumulation → channel
// classification → lake detection → river harvesting → vector geometry,
// plus water-body classification of the cell polygons.
//
// The pipeline is a single-threaded, synchronous batch: stages run
// strictly in sequence over one core.State, every run recomputes all
// derived fields from scratch, and the Report is a value object owned by
// the caller. Given the same mesh and the same Params.Seed the outputs
// are byte-identical; the only random consumers (meander jitter and the
// waterless lake-seed fallback) draw from one generator seeded with
// Params.Seed.
//
// Diagnostics flow through an injected zerolog.Logger (default: Nop), one
// event per stage; the library stages themselves never log.
//
// Errors (sentinel):
//
//	– ErrNilMesh – Run received a nil mesh.
//
// Stage option errors from the underlying packages are wrapped and
// returned as-is, so callers can errors.Is against e.g. flux.ErrBadPercentile.
package pipeline

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/hydromesh/core"
	"github.com/katalvlaran/hydromesh/depress"
	"github.com/katalvlaran/hydromesh/flux"
	"github.com/katalvlaran/hydromesh/lakes"
	"github.com/katalvlaran/hydromesh/rivergeom"
	"github.com/katalvlaran/hydromesh/waterbody"
)

// ErrNilMesh indicates Run received a nil *core.Mesh.
var ErrNilMesh = errors.New("pipeline: mesh is nil")

// Params collects every stage knob plus the run seed. Zero values are not
// meaningful; start from DefaultParams and override.
type Params struct {
	// Seed initializes the single random source threaded through the run.
	Seed int64

	// SeaLevel is shared by every stage that splits water from land.
	SeaLevel float64

	// Depression resolution.
	Epsilon   float64
	MaxPasses int

	// Flow routing and accumulation.
	RunoffBaseline float64
	Method         flux.Method
	RelaxPasses    int
	RelaxFraction  float64

	// Channel classification.
	Percentile       float64
	AbsFloor         float64
	SlopeMin         float64
	MinSources       int
	MinSourceDivisor int

	// Lake detection.
	LakeEpsilon    float64
	SeedPercentile float64

	// Water-body classification.
	Bounds      waterbody.Rect
	Quantum     float64
	BorderTol   float64
	SeaAbsArea  float64
	SeaFracArea float64

	// River geometry.
	MeanderMin, MeanderMax float64
	Alpha                  float64
	WidthScale             float64
	WidthSaturation        float64
	ShadowScale, ShadowMin float64
}

// DefaultParams assembles the stage defaults for a map spanning bounds.
func DefaultParams(bounds waterbody.Rect) Params {
	dep := depress.DefaultOptions()
	fl := flux.DefaultOptions()
	lk := lakes.DefaultOptions()
	wb := waterbody.DefaultOptions(bounds)
	rg := rivergeom.DefaultOptions()

	return Params{
		Seed:             1,
		SeaLevel:         fl.SeaLevel,
		Epsilon:          dep.Epsilon,
		MaxPasses:        dep.MaxPasses,
		RunoffBaseline:   fl.RunoffBaseline,
		Method:           fl.Method,
		RelaxPasses:      fl.RelaxPasses,
		RelaxFraction:    fl.RelaxFraction,
		Percentile:       fl.Percentile,
		AbsFloor:         fl.AbsFloor,
		SlopeMin:         fl.SlopeMin,
		MinSources:       fl.MinSources,
		MinSourceDivisor: fl.MinSourceDivisor,
		LakeEpsilon:      lk.Epsilon,
		SeedPercentile:   lk.SeedPercentile,
		Bounds:           bounds,
		Quantum:          wb.Quantum,
		BorderTol:        wb.BorderTol,
		SeaAbsArea:       wb.AbsArea,
		SeaFracArea:      wb.FracArea,
		MeanderMin:       rg.MeanderMin,
		MeanderMax:       rg.MeanderMax,
		Alpha:            rg.Alpha,
		WidthScale:       rg.WidthScale,
		WidthSaturation:  rg.WidthSaturation,
		ShadowScale:      rg.ShadowScale,
		ShadowMin:        rg.ShadowMin,
	}
}

// Report is the complete output of one run. All fields are recomputed per
// run and owned by the caller.
type Report struct {
	// RunID correlates this run's diagnostics; it is an identifier, not a
	// simulation output, and together with Elapsed is the only field that
	// differs between identically-seeded runs.
	RunID uuid.UUID

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// State holds every per-cell derived field.
	State *core.State

	// Diags lists the malformed cells skipped during mesh validation.
	Diags []core.Diag

	// Depression, Route, Channels summarize the flow stages.
	Depression depress.Result
	Route      flux.RouteResult
	Channels   flux.Stats

	// Lakes lists detected lake regions.
	Lakes []lakes.Lake

	// Components and Kinds classify the cell polygons; nil when the mesh
	// carries no polygon rings.
	Components []waterbody.Component
	Kinds      []waterbody.Kind

	// Rivers are the harvested per-river sample chains (source → mouth).
	Rivers []rivergeom.Run

	// Segments is the flat Bezier list ready for vector rendering.
	Segments []rivergeom.Segment
}
