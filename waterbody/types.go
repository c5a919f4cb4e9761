// Package waterbody classifies map polygons into connected water and land
// components: ocean, sea, lake, and land.
//
// Adjacency between polygons is detected through shared edges, not
// distance heuristics: every polygon edge is hashed with its endpoint
// coordinates quantized to a grid (tolerating floating-point jitter from
// upstream geometry), and two polygons are neighbors iff they contribute
// the same edge key. This reflects true mesh topology and keeps the whole
// classification linear in the total vertex count — no quadratic
// polygon-pair scan.
//
// Components are flood-filled separately over water and land polygons. A
// water component touching the map border is an ocean; a landlocked water
// component whose aggregate area reaches the absolute or
// fractional-of-map-area threshold is a sea; the rest are lakes. Connected
// land polygons form land components (islands and continents).
//
// Complexity:
//
//	– Time:  O(V) amortized, V = total polygon vertices.
//	– Space: O(V) for the edge hash.
//
// Errors (sentinel):
//
//	– ErrNoPolygons  – nil or empty polygon slice.
//	– ErrBadBounds   – degenerate map bounds.
//	– ErrBadQuantum  – Quantum ≤ 0 or non-finite.
package waterbody

import (
	"errors"

	"github.com/katalvlaran/hydromesh/core"
)

// Sentinel errors returned by Classify.
var (
	// ErrNoPolygons indicates a nil or empty polygon slice.
	ErrNoPolygons = errors.New("waterbody: polygon slice is empty")

	// ErrBadBounds indicates Bounds with non-positive width or height.
	ErrBadBounds = errors.New("waterbody: bounds must have positive extent")

	// ErrBadQuantum indicates a non-positive quantization step.
	ErrBadQuantum = errors.New("waterbody: Quantum must be a positive finite value")
)

// Kind labels one classified component.
type Kind int

const (
	// KindOcean is a water component touching the map border.
	KindOcean Kind = iota

	// KindSea is a landlocked water component at or above the area threshold.
	KindSea

	// KindLake is any remaining water component.
	KindLake

	// KindLand is a connected land component (island or continent).
	KindLand
)

// String returns the display label of the kind.
func (k Kind) String() string {
	switch k {
	case KindOcean:
		return "Ocean"
	case KindSea:
		return "Sea"
	case KindLake:
		return "Lake"
	case KindLand:
		return "Land"
	default:
		return "Unknown"
	}
}

// Polygon is one input polygon, typically a mesh cell's boundary ring.
type Polygon struct {
	// ID is the caller's polygon identifier (usually the cell id).
	ID int

	// Ring is the boundary, in order, without a closing repeat.
	Ring []core.Point

	// Water marks sub-sea-level polygons.
	Water bool

	// Area is the polygon area; 0 means "compute it from Ring".
	Area float64
}

// Rect is the map bounding box used for border detection.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Area returns the rectangle area.
func (r Rect) Area() float64 { return (r.MaxX - r.MinX) * (r.MaxY - r.MinY) }

// Component is one connected region of same-type polygons.
type Component struct {
	// Kind is the classification label.
	Kind Kind

	// Members lists input polygon indices in ascending order.
	Members []int

	// Area is the aggregate polygon area.
	Area float64

	// Border is true when any member touches the map border.
	Border bool
}

// Options configures classification.
type Options struct {
	// Bounds is the map bounding box; required for border detection.
	Bounds Rect

	// Quantum is the coordinate quantization step for edge hashing. Two
	// vertices within it collapse to one hash key.
	Quantum float64

	// BorderTol is the distance from Bounds within which a vertex counts
	// as touching the border.
	BorderTol float64

	// AbsArea is the absolute aggregate-area threshold for seas.
	AbsArea float64

	// FracArea is the sea threshold as a fraction of Bounds.Area(); the
	// effective threshold is max(AbsArea, FracArea·Bounds.Area()).
	FracArea float64
}

// DefaultOptions returns the standard classification parameters for a map
// spanning the given bounds.
func DefaultOptions(bounds Rect) Options {
	return Options{
		Bounds:    bounds,
		Quantum:   1e-6,
		BorderTol: 1e-9,
		AbsArea:   0,
		FracArea:  0.1,
	}
}

// Option mutates Options before a run.
type Option func(*Options)

// WithQuantum overrides the edge-hash quantization step.
func WithQuantum(q float64) Option {
	return func(o *Options) { o.Quantum = q }
}

// WithBorderTol overrides the border-touch tolerance.
func WithBorderTol(tol float64) Option {
	return func(o *Options) { o.BorderTol = tol }
}

// WithAreaThresholds overrides the sea area thresholds.
func WithAreaThresholds(abs, frac float64) Option {
	return func(o *Options) { o.AbsArea = abs; o.FracArea = frac }
}
