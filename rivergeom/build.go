package rivergeom

import (
	"math"

	"github.com/katalvlaran/hydromesh/core"
)

// saturationDamp compresses width growth above WidthSaturation.
const saturationDamp = 0.25

// Build converts river runs into cubic Bezier segments. Runs with fewer
// than two samples are skipped silently (a no-op, not an error); a
// two-sample run yields exactly one segment with no meander injection.
//
// Complexity: O(P), P = total samples across runs.
func Build(runs []Run, opts ...Option) ([]Segment, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Rand == nil {
		return nil, ErrNilRand
	}
	if cfg.MeanderMin < 0 || cfg.MeanderMin > cfg.MeanderMax {
		return nil, ErrBadMeanderRange
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		return nil, ErrBadAlpha
	}

	var segs []Segment
	for ri := range runs {
		segs = appendRun(segs, &runs[ri], cfg)
	}

	return segs, nil
}

// appendRun emits one river's segments onto segs.
func appendRun(segs []Segment, run *Run, cfg Options) []Segment {
	if len(run.Samples) < 2 {
		return segs // sub-two-point river: silently skipped
	}

	// 2) Meander injection (only for chains longer than two points).
	pts, src := meander(run.Samples, cfg)

	// 3) Catmull-Rom → Bezier, one segment per consecutive point pair.
	for i := 0; i+1 < len(pts); i++ {
		c1, c2 := controls(pts, i, cfg.Alpha)
		q := run.Samples[src[i]].Flux
		w := width(q, cfg)
		segs = append(segs, Segment{
			Start:       pts[i],
			Ctrl1:       c1,
			Ctrl2:       c2,
			End:         pts[i+1],
			Width:       w,
			ShadowWidth: shadow(w, cfg),
			RiverID:     run.RiverID,
		})
	}

	return segs
}

// meander returns the augmented polyline and, per polyline point, the
// index of the sample it originates from. Two-point chains pass through
// untouched.
func meander(samples []Sample, cfg Options) ([]core.Point, []int) {
	if len(samples) == 2 {
		return []core.Point{samples[0].Point, samples[1].Point}, []int{0, 1}
	}

	pts := make([]core.Point, 0, len(samples)*3)
	src := make([]int, 0, len(samples)*3)
	for i := 0; i+1 < len(samples); i++ {
		a, b := samples[i].Point, samples[i+1].Point
		pts = append(pts, a)
		src = append(src, i)

		// One axis draw per segment, one magnitude and sign per point.
		axis := cfg.Rand.Intn(2)
		for _, tt := range [2]float64{1.0 / 3.0, 2.0 / 3.0} {
			mag := cfg.MeanderMin + cfg.Rand.Float64()*(cfg.MeanderMax-cfg.MeanderMin)
			if cfg.Rand.Intn(2) == 1 {
				mag = -mag
			}
			p := core.Point{X: a.X + (b.X-a.X)*tt, Y: a.Y + (b.Y-a.Y)*tt}
			if axis == 0 {
				p.X += mag
			} else {
				p.Y += mag
			}
			pts = append(pts, p)
			src = append(src, i)
		}
	}
	last := len(samples) - 1
	pts = append(pts, samples[last].Point)
	src = append(src, last)

	return pts, src
}

// controls derives the two cubic control points for the span
// pts[i]→pts[i+1] from up to four surrounding points: tangents are
// chord-ratio-scaled central differences, and each control point is the
// endpoint plus (or minus) one third of its tangent. Missing neighbors at
// the chain ends degrade to one-sided tangents, which keeps the Bezier
// endpoints exactly on the polyline.
func controls(pts []core.Point, i int, alpha float64) (core.Point, core.Point) {
	p1, p2 := pts[i], pts[i+1]
	p0, p3 := p1, p2
	if i > 0 {
		p0 = pts[i-1]
	}
	if i+2 < len(pts) {
		p3 = pts[i+2]
	}

	d01 := chord(p0, p1, alpha)
	d12 := chord(p1, p2, alpha)
	d23 := chord(p2, p3, alpha)

	m1 := tangent(p0, p2, d12, d01)
	m2 := tangent(p1, p3, d12, d23)

	c1 := core.Point{X: p1.X + m1.X/3, Y: p1.Y + m1.Y/3}
	c2 := core.Point{X: p2.X - m2.X/3, Y: p2.Y - m2.Y/3}

	return c1, c2
}

// tangent is the central difference prev→next scaled by the ratio of the
// inner chord to the surrounding chords; a fully degenerate chord sum
// (duplicate points) collapses to a zero tangent, which leaves the
// controls on the endpoints. At chain ends the outer chord is zero and
// the tangent degrades to the one-sided span.
func tangent(prev, next core.Point, dInner, dOuter float64) core.Point {
	sum := dInner + dOuter
	if sum == 0 {
		return core.Point{}
	}
	scale := dInner / sum

	return core.Point{X: (next.X - prev.X) * scale, Y: (next.Y - prev.Y) * scale}
}

// chord returns |a-b|^alpha.
func chord(a, b core.Point, alpha float64) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return 0
	}

	return math.Pow(d, alpha)
}

// width converts discharge to stroke width with mild saturation above the
// threshold.
func width(q float64, cfg Options) float64 {
	w := cfg.WidthScale * q
	if w > cfg.WidthSaturation {
		w = cfg.WidthSaturation + (w-cfg.WidthSaturation)*saturationDamp
	}

	return w
}

// shadow derives the clamped shadow width.
func shadow(w float64, cfg Options) float64 {
	s := cfg.ShadowScale * w
	if s < cfg.ShadowMin {
		s = cfg.ShadowMin
	}

	return s
}
