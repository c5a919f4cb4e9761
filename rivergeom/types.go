// Package rivergeom synthesizes smooth vector river geometry from discrete
// flow samples.
//
// Each river arrives as an ordered chain of point samples (source toward
// mouth) carrying the local discharge. Chains of fewer than two points are
// skipped silently. Longer chains first receive organic meanders: two
// interpolated points per consecutive segment (at 1/3 and 2/3), each
// offset along x or y — the axis drawn once per segment, the magnitude and
// sign per point — by the injected random source. Topology never changes:
// original sample points stay in place.
//
// The meander-augmented polyline is then fit with a chord-length
// parameterized Catmull-Rom spline (configurable exponent Alpha; 0.5 is
// the centripetal choice that avoids cusps on uneven spacing) and emitted
// as cubic Bezier segments. Every segment's endpoints equal consecutive
// polyline points exactly; only the control points bend.
//
// Stroke width derives from the discharge sampled at the segment's
// originating cell, with mild saturation above WidthSaturation; the shadow
// width is scaled down and clamped to ShadowMin.
//
// All randomness flows through Options.Rand. Identical seed and input
// yield byte-identical output.
//
// Complexity: O(P) time and memory, P = total input samples.
//
// Errors (sentinel):
//
//	– ErrNilRand         – no random source injected.
//	– ErrBadMeanderRange – negative or inverted meander magnitudes.
//	– ErrBadAlpha        – Alpha outside (0,1].
package rivergeom

import (
	"errors"
	"math/rand"

	"github.com/katalvlaran/hydromesh/core"
)

// Sentinel errors returned by Build.
var (
	// ErrNilRand indicates Options.Rand was left nil.
	ErrNilRand = errors.New("rivergeom: random source is nil")

	// ErrBadMeanderRange indicates MeanderMin < 0 or MeanderMin > MeanderMax.
	ErrBadMeanderRange = errors.New("rivergeom: meander range must satisfy 0 ≤ min ≤ max")

	// ErrBadAlpha indicates a chord exponent outside (0,1].
	ErrBadAlpha = errors.New("rivergeom: Alpha must lie in (0,1]")
)

// Sample is one flow sample along a river chain.
type Sample struct {
	// Point is the sample's plotting coordinate.
	Point core.Point

	// Flux is the local discharge used for width assignment.
	Flux float64

	// Cell is the originating cell id (carried through for callers).
	Cell int
}

// Run is one river: ordered samples from source toward mouth.
type Run struct {
	// RiverID identifies the river in the emitted segments.
	RiverID int

	// Samples is the ordered chain; fewer than two yields no geometry.
	Samples []Sample
}

// Segment is one cubic Bezier piece of a river's vector geometry.
type Segment struct {
	// Start and End equal consecutive points of the meander-augmented
	// polyline, exactly.
	Start, End core.Point

	// Ctrl1 and Ctrl2 are the cubic control points.
	Ctrl1, Ctrl2 core.Point

	// Width is the stroke width at this segment.
	Width float64

	// ShadowWidth is the clamped shadow stroke width.
	ShadowWidth float64

	// RiverID is the owning river.
	RiverID int
}

// Options configures geometry synthesis.
type Options struct {
	// Rand is the required random source; all jitter flows through it.
	Rand *rand.Rand

	// MeanderMin and MeanderMax bound the injected offset magnitude.
	MeanderMin, MeanderMax float64

	// Alpha is the chord-length exponent of the Catmull-Rom
	// parameterization (0.5 = centripetal, 1.0 = chordal).
	Alpha float64

	// WidthScale converts discharge into stroke width.
	WidthScale float64

	// WidthSaturation is the width above which growth is damped.
	WidthSaturation float64

	// ShadowScale and ShadowMin derive the shadow width:
	// max(ShadowMin, ShadowScale·width).
	ShadowScale, ShadowMin float64
}

// DefaultOptions returns the standard synthesis parameters (Rand must
// still be injected).
func DefaultOptions() Options {
	return Options{
		MeanderMin:      0.1,
		MeanderMax:      0.3,
		Alpha:           0.5,
		WidthScale:      1.0,
		WidthSaturation: 5.0,
		ShadowScale:     0.45,
		ShadowMin:       0.2,
	}
}

// Option mutates Options before a run.
type Option func(*Options)

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

// WithMeanderRange overrides the offset magnitude bounds.
func WithMeanderRange(min, max float64) Option {
	return func(o *Options) { o.MeanderMin = min; o.MeanderMax = max }
}

// WithAlpha overrides the chord-length exponent.
func WithAlpha(a float64) Option {
	return func(o *Options) { o.Alpha = a }
}

// WithWidth overrides width scaling and saturation.
func WithWidth(scale, saturation float64) Option {
	return func(o *Options) { o.WidthScale = scale; o.WidthSaturation = saturation }
}

// WithShadow overrides shadow scaling and clamp.
func WithShadow(scale, min float64) Option {
	return func(o *Options) { o.ShadowScale = scale; o.ShadowMin = min }
}
