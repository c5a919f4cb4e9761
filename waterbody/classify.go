package waterbody

import (
	"math"

	"github.com/katalvlaran/hydromesh/core"
)

// vertexKey is a quantized vertex coordinate.
type vertexKey struct{ x, y int64 }

// edgeKey is an undirected quantized edge: endpoints in canonical order.
type edgeKey struct{ a, b vertexKey }

// Classify labels polygons into connected ocean/sea/lake/land components.
// Polygons with fewer than two ring vertices are isolated (no edges, so no
// neighbors) but still classified on their own.
//
// Returns the component list (discovery order: ascending lowest member
// index) and the per-polygon kind slice, aligned with the input.
//
// Complexity: O(V) amortized over the edge hash, V = total vertices.
func Classify(polys []Polygon, bounds Rect, opts ...Option) ([]Component, []Kind, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions(bounds)
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(polys) == 0 {
		return nil, nil, ErrNoPolygons
	}
	if cfg.Bounds.MaxX <= cfg.Bounds.MinX || cfg.Bounds.MaxY <= cfg.Bounds.MinY {
		return nil, nil, ErrBadBounds
	}
	if cfg.Quantum <= 0 || math.IsNaN(cfg.Quantum) || math.IsInf(cfg.Quantum, 0) {
		return nil, nil, ErrBadQuantum
	}

	// 2) Hash every polygon edge; shared keys reveal mesh adjacency.
	edges := make(map[edgeKey][]int)
	for i, p := range polys {
		ring := p.Ring
		for j := range ring {
			k := len(ring)
			if k < 2 {
				break
			}
			e := canonicalEdge(ring[j], ring[(j+1)%k], cfg.Quantum)
			edges[e] = append(edges[e], i)
		}
	}
	adj := make([][]int, len(polys))
	for _, owners := range edges {
		for _, a := range owners {
			for _, b := range owners {
				if a != b {
					adj[a] = append(adj[a], b)
				}
			}
		}
	}

	// 3) Flood fill components, water and land separately.
	comps := make([]Component, 0, 8)
	compOf := make([]int, len(polys))
	for i := range compOf {
		compOf[i] = -1
	}
	for i := range polys {
		if compOf[i] != -1 {
			continue
		}
		c := Component{}
		queue := []int{i}
		compOf[i] = len(comps)
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			c.Members = append(c.Members, u)
			c.Area += polyArea(&polys[u])
			if touchesBorder(&polys[u], cfg) {
				c.Border = true
			}
			for _, v := range adj[u] {
				if compOf[v] == -1 && polys[v].Water == polys[i].Water {
					compOf[v] = len(comps)
					queue = append(queue, v)
				}
			}
		}
		comps = append(comps, c)
	}

	// 4) Classification thresholds.
	seaArea := cfg.AbsArea
	if frac := cfg.FracArea * cfg.Bounds.Area(); frac > seaArea {
		seaArea = frac
	}
	for ci := range comps {
		c := &comps[ci]
		switch {
		case !polys[c.Members[0]].Water:
			c.Kind = KindLand
		case c.Border:
			c.Kind = KindOcean
		case c.Area >= seaArea:
			c.Kind = KindSea
		default:
			c.Kind = KindLake
		}
	}

	// 5) Per-polygon kind map.
	kinds := make([]Kind, len(polys))
	for i := range polys {
		kinds[i] = comps[compOf[i]].Kind
	}

	return comps, kinds, nil
}

// canonicalEdge quantizes both endpoints and orders them so that the two
// sharing polygons produce identical keys regardless of winding.
func canonicalEdge(p, q core.Point, quantum float64) edgeKey {
	a := quantize(p, quantum)
	b := quantize(q, quantum)
	if b.x < a.x || (b.x == a.x && b.y < a.y) {
		a, b = b, a
	}

	return edgeKey{a: a, b: b}
}

// quantize snaps a point to the hash grid.
func quantize(p core.Point, quantum float64) vertexKey {
	return vertexKey{
		x: int64(math.Round(p.X / quantum)),
		y: int64(math.Round(p.Y / quantum)),
	}
}

// polyArea returns the supplied area, or the shoelace area of the ring
// when the caller left it zero.
func polyArea(p *Polygon) float64 {
	if p.Area != 0 {
		return p.Area
	}
	ring := p.Ring
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}

	return math.Abs(sum) / 2
}

// touchesBorder reports whether any ring vertex lies within BorderTol of
// the map bounds.
func touchesBorder(p *Polygon, cfg Options) bool {
	for _, v := range p.Ring {
		if v.X-cfg.Bounds.MinX <= cfg.BorderTol ||
			cfg.Bounds.MaxX-v.X <= cfg.BorderTol ||
			v.Y-cfg.Bounds.MinY <= cfg.BorderTol ||
			cfg.Bounds.MaxY-v.Y <= cfg.BorderTol {
			return true
		}
	}

	return false
}
