// Package flux routes flow downhill across an irregular cell graph and
// classifies the resulting channels into river cells.
//
// Routing assigns each land cell at most one successor (its strictly
// lowest neighbor), so flow forms a forest: many cells may share a
// successor (confluence), but no cell has two. Water cells never receive a
// successor. Flux starts as runoff baseline plus precipitation and is
// accumulated downstream by one of two methods:
//
//   - MethodTopological (default): one pass in descending working-height
//     order; every cell pushes its full flux into its successor exactly
//     once. Conservation is exact: the flux arriving at sinks equals the
//     total input.
//   - MethodRelaxation: a fixed number of passes, each forwarding a fixed
//     fraction of the still-unrouted flux. Conservation is approximate;
//     the undelivered residual shrinks roughly as (1-fraction)^passes.
//     Kept as a fallback for callers that cannot afford the sort.
//
// Classification thresholds flux at a high percentile of positive land
// flux (floored by an absolute constant so rivers exist on any map size),
// admits steep low-volume headwaters at 80% of the threshold, and re-runs
// once with a relaxed threshold if too few sources survive. The re-run is
// deliberate two-pass policy, not error correction.
//
// Complexity:
//
//	– Route:      O(N·d)
//	– Accumulate: O(N log N) topological, O(passes·N) relaxation
//	– Classify:   O(N log N) for the percentile sort
//
// Errors (sentinel):
//
//	– ErrNilMesh, ErrNilState – missing inputs.
//	– ErrBadPercentile        – Percentile outside (0,1).
//	– ErrBadMethod            – unknown accumulation method.
//	– ErrBadRelaxation        – RelaxPasses < 1 or RelaxFraction outside (0,1].
package flux

import "errors"

// Sentinel errors returned by Route and Classify.
var (
	// ErrNilMesh indicates a nil *core.Mesh input.
	ErrNilMesh = errors.New("flux: mesh is nil")

	// ErrNilState indicates a nil or mis-sized *core.State input.
	ErrNilState = errors.New("flux: state is nil or does not match mesh")

	// ErrBadPercentile indicates Percentile is outside the open interval (0,1).
	ErrBadPercentile = errors.New("flux: Percentile must lie in (0,1)")

	// ErrBadMethod indicates an unknown accumulation Method value.
	ErrBadMethod = errors.New("flux: unknown accumulation method")

	// ErrBadRelaxation indicates RelaxPasses < 1 or RelaxFraction outside (0,1].
	ErrBadRelaxation = errors.New("flux: RelaxPasses must be ≥ 1 and RelaxFraction in (0,1]")
)

// Method selects the flux accumulation algorithm.
type Method int

const (
	// MethodTopological accumulates in one descending-height pass.
	// Exact: sink flux sums to the total input.
	MethodTopological Method = iota

	// MethodRelaxation forwards a fixed fraction of unrouted flux per pass.
	// Approximate: a residual of roughly total·(1-RelaxFraction)^RelaxPasses
	// never reaches the sinks.
	MethodRelaxation
)

// Options configures routing, accumulation, and channel classification.
type Options struct {
	// SeaLevel splits water from land on the working heights.
	SeaLevel float64

	// RunoffBaseline is added to every land cell's precipitation when
	// initializing flux, so even arid cells carry a trickle.
	RunoffBaseline float64

	// Method selects the accumulation algorithm.
	Method Method

	// RelaxPasses and RelaxFraction tune MethodRelaxation; ignored by
	// MethodTopological.
	RelaxPasses   int
	RelaxFraction float64

	// Percentile of positive land flux used as the river threshold.
	// Sensible values lie in [0.80, 0.92].
	Percentile float64

	// AbsFloor is the lowest admissible threshold, guaranteeing rivers on
	// small or dry maps.
	AbsFloor float64

	// SlopeMin is the minimum downhill drop for the steep-headwater rule:
	// a cell at ≥ 80% of the threshold qualifies if its drop to the
	// successor reaches SlopeMin.
	SlopeMin float64

	// MinSources and MinSourceDivisor derive the safety-net floor on source
	// count: max(MinSources, N/MinSourceDivisor). Falling below it triggers
	// the single re-classification at the k-th largest land flux.
	MinSources       int
	MinSourceDivisor int
}

// DefaultOptions returns the standard flow parameters.
func DefaultOptions() Options {
	return Options{
		SeaLevel:         0.2,
		RunoffBaseline:   0.08,
		Method:           MethodTopological,
		RelaxPasses:      20,
		RelaxFraction:    0.5,
		Percentile:       0.85,
		AbsFloor:         0.5,
		SlopeMin:         0.015,
		MinSources:       1,
		MinSourceDivisor: 200,
	}
}

// Option mutates Options before a run.
type Option func(*Options)

// WithSeaLevel overrides the water/land elevation split.
func WithSeaLevel(level float64) Option {
	return func(o *Options) { o.SeaLevel = level }
}

// WithRunoffBaseline overrides the baseline runoff added per land cell.
func WithRunoffBaseline(r float64) Option {
	return func(o *Options) { o.RunoffBaseline = r }
}

// WithMethod selects the accumulation algorithm.
func WithMethod(m Method) Option {
	return func(o *Options) { o.Method = m }
}

// WithRelaxation tunes the relaxation fallback.
func WithRelaxation(passes int, fraction float64) Option {
	return func(o *Options) { o.RelaxPasses = passes; o.RelaxFraction = fraction }
}

// WithPercentile overrides the river-threshold percentile.
func WithPercentile(p float64) Option {
	return func(o *Options) { o.Percentile = p }
}

// WithAbsFloor overrides the absolute threshold floor.
func WithAbsFloor(f float64) Option {
	return func(o *Options) { o.AbsFloor = f }
}

// WithSlopeMin overrides the steep-headwater drop.
func WithSlopeMin(s float64) Option {
	return func(o *Options) { o.SlopeMin = s }
}

// WithMinSources overrides the safety-net source floor.
func WithMinSources(abs, divisor int) Option {
	return func(o *Options) { o.MinSources = abs; o.MinSourceDivisor = divisor }
}

// RouteResult summarizes successor assignment and accumulation.
type RouteResult struct {
	// Routed counts land cells that received a successor.
	Routed int

	// Sinks counts usable cells with no successor (water cells, pits and
	// flats left by the bounded depression pass).
	Sinks int

	// TotalInput is the summed initial flux (runoff + precipitation).
	TotalInput float64

	// Emitted is the flux that arrived at sinks. Equals TotalInput under
	// MethodTopological; trails it by the residual under MethodRelaxation.
	Emitted float64
}

// Stats summarizes channel classification.
type Stats struct {
	// Threshold is the flux cutoff finally applied (after any safety-net
	// re-run).
	Threshold float64

	// Relaxed is true when the safety-net re-classification fired.
	Relaxed bool

	// Rivers is the number of classified river cells (segments).
	Rivers int

	// Sources counts river cells with zero river in-degree.
	Sources int

	// Confluences counts river cells with river in-degree ≥ 2.
	Confluences int

	// Mouths counts river cells whose successor is absent, non-river, or
	// water.
	Mouths int
}
