// Package depress resolves terrain depressions on an irregular cell graph.
//
// A depression (pit) is a land cell lower than all of its neighbors, with
// no immediate downhill path. Resolve raises each pit to just above its
// lowest neighbor, in bounded passes, until every land cell can drain to
// some neighbor or the pass cap is reached. Water cells are never touched,
// and the raw mesh heights are never mutated: only the working copy in
// core.State.Height changes.
//
// Non-convergence within the pass cap is not an error. Residual flats are
// expected and are handled downstream by lake detection, which operates on
// the raw heights anyway.
//
// Complexity:
//
//	– Time:  O(passes × N × d), N = |cells|, d = average neighbor count.
//	– Space: O(1) beyond the state slices.
//
// Errors (sentinel):
//
//	– ErrNilMesh     if the mesh is nil.
//	– ErrNilState    if the state is nil or mis-sized.
//	– ErrBadEpsilon  if Epsilon ≤ 0 or non-finite.
//	– ErrBadMaxPasses if MaxPasses < 1.
package depress

import "errors"

// Sentinel errors returned by Resolve.
var (
	// ErrNilMesh indicates a nil *core.Mesh was passed to Resolve.
	ErrNilMesh = errors.New("depress: mesh is nil")

	// ErrNilState indicates a nil or mis-sized *core.State was passed to Resolve.
	ErrNilState = errors.New("depress: state is nil or does not match mesh")

	// ErrBadEpsilon indicates Epsilon is zero, negative, or non-finite.
	ErrBadEpsilon = errors.New("depress: Epsilon must be a positive finite value")

	// ErrBadMaxPasses indicates MaxPasses is below one.
	ErrBadMaxPasses = errors.New("depress: MaxPasses must be at least 1")
)

// Options configures depression resolution.
//
// SeaLevel  – cells with working height below this are water and are skipped.
// Epsilon   – raised pits end up at (lowest neighbor + Epsilon), and a cell
//             already Epsilon above its lowest neighbor counts as draining.
// MaxPasses – hard cap on leveling passes; reaching it degrades gracefully.
type Options struct {
	SeaLevel  float64
	Epsilon   float64
	MaxPasses int
}

// DefaultOptions returns the standard resolution parameters:
// SeaLevel=0.2, Epsilon=1e-5, MaxPasses=100.
func DefaultOptions() Options {
	return Options{
		SeaLevel:  0.2,
		Epsilon:   1e-5,
		MaxPasses: 100,
	}
}

// Option mutates Options before a run.
type Option func(*Options)

// WithSeaLevel overrides the water/land elevation split.
func WithSeaLevel(level float64) Option {
	return func(o *Options) { o.SeaLevel = level }
}

// WithEpsilon overrides the drain margin.
func WithEpsilon(eps float64) Option {
	return func(o *Options) { o.Epsilon = eps }
}

// WithMaxPasses overrides the leveling pass cap.
func WithMaxPasses(n int) Option {
	return func(o *Options) { o.MaxPasses = n }
}

// Result summarizes one resolution run.
type Result struct {
	// Passes is the number of leveling passes executed.
	Passes int

	// Raised is the total number of cell raises across all passes.
	Raised int

	// Converged is true when the final pass raised nothing; false means the
	// pass cap was hit with flats remaining (handled later by lakes).
	Converged bool
}
