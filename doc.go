// Package hydromesh is your in-memory terrain-hydrology lab: it takes an
// irregular planar cell graph (heights, precipitation, adjacency) and
// turns it into drainage, rivers, lakes, and render-ready vector water.
//
// 🚀 What is hydromesh?
//
//	A deterministic, single-threaded simulation core that brings together:
//		• Depression resolution: bounded pit-raising until land drains
//		• Flow routing: steepest-descent successors + flux accumulation
//		  (exact topological pass, or relaxation fallback)
//		• Channel selection: percentile thresholds with a source safety net
//		• Lake detection: priority-flood spill heights, regions & outlets
//		• Water bodies: edge-hash components labeled ocean/sea/lake/land
//		• River geometry: seeded meanders + Catmull-Rom→Bezier curves
//
// ✨ Why choose hydromesh?
//
//   - Reproducible – one injected seed drives every random draw
//   - Defensive – malformed cells are skipped and reported, never fatal
//   - Pure batch – no I/O, no goroutines, value-object outputs
//   - Composable – each stage is its own package with its own options
//
// Under the hood, everything is organized per stage:
//
//	core/      — Mesh, Cell, Point, and the mutable per-run State
//	depress/   — depression (pit) resolution
//	flux/      — flow routing, flux accumulation, channel classification
//	lakes/     — priority-flood lake detection
//	waterbody/ — ocean/sea/lake/land component labeling
//	rivergeom/ — meanders, splines, widths
//	pipeline/  — the sequential orchestrator with zerolog diagnostics
//	config/    — TOML parameter files with default overlay
//
// Quick ASCII example:
//
//	    ~ 4 ~          heights: 4 > 3 > 2 > ~ (sea)
//	    3 2 ~          flow:    4 → 3 → 2 → sea
//	    ~ ~ ~          the 2-cell is the river mouth
//
// Feed a mesh and params into pipeline.Run and render Report.Segments.
// Dive into README.md for full examples and the parameter reference.
//
//	go get github.com/katalvlaran/hydromesh
package hydromesh
