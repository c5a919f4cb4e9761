package pipeline

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/hydromesh/core"
	"github.com/katalvlaran/hydromesh/depress"
	"github.com/katalvlaran/hydromesh/flux"
	"github.com/katalvlaran/hydromesh/lakes"
	"github.com/katalvlaran/hydromesh/rivergeom"
	"github.com/katalvlaran/hydromesh/waterbody"
)

// Pipeline runs the hydrology stages with fixed Params. Construct with
// New; a Pipeline is reusable across meshes and runs.
type Pipeline struct {
	params Params
	log    zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger injects the diagnostics logger (default: zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New builds a Pipeline for the given parameters.
func New(params Params, opts ...Option) *Pipeline {
	p := &Pipeline{params: params, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the full simulation over m and returns the Report.
// Stages run strictly in sequence; see the package comment for the data
// flow. Stage parameter errors abort the run and are returned wrapped.
func (p *Pipeline) Run(m *core.Mesh) (*Report, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	started := time.Now()
	cfg := p.params
	rng := rand.New(rand.NewSource(cfg.Seed))
	rep := &Report{
		RunID: uuid.New(),
		State: core.NewState(m),
		Diags: m.Diags(),
	}
	log := p.log.With().Str("run_id", rep.RunID.String()).Logger()
	for _, d := range rep.Diags {
		log.Warn().Int("cell", d.Cell).Str("reason", d.Reason).Msg("cell skipped")
	}

	// 1) Depression resolution on the working heights.
	var err error
	rep.Depression, err = depress.Resolve(m, rep.State,
		depress.WithSeaLevel(cfg.SeaLevel),
		depress.WithEpsilon(cfg.Epsilon),
		depress.WithMaxPasses(cfg.MaxPasses),
	)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("passes", rep.Depression.Passes).
		Int("raised", rep.Depression.Raised).
		Bool("converged", rep.Depression.Converged).
		Msg("depressions resolved")

	// 2) Flow routing and flux accumulation.
	rep.Route, err = flux.Route(m, rep.State,
		flux.WithSeaLevel(cfg.SeaLevel),
		flux.WithRunoffBaseline(cfg.RunoffBaseline),
		flux.WithMethod(cfg.Method),
		flux.WithRelaxation(cfg.RelaxPasses, cfg.RelaxFraction),
	)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("routed", rep.Route.Routed).
		Int("sinks", rep.Route.Sinks).
		Float64("input", rep.Route.TotalInput).
		Float64("emitted", rep.Route.Emitted).
		Msg("flow routed")

	// 3) Channel classification.
	rep.Channels, err = flux.Classify(m, rep.State,
		flux.WithSeaLevel(cfg.SeaLevel),
		flux.WithPercentile(cfg.Percentile),
		flux.WithAbsFloor(cfg.AbsFloor),
		flux.WithSlopeMin(cfg.SlopeMin),
		flux.WithMinSources(cfg.MinSources, cfg.MinSourceDivisor),
	)
	if err != nil {
		return nil, err
	}
	log.Info().
		Float64("threshold", rep.Channels.Threshold).
		Bool("relaxed", rep.Channels.Relaxed).
		Int("rivers", rep.Channels.Rivers).
		Int("sources", rep.Channels.Sources).
		Int("confluences", rep.Channels.Confluences).
		Int("mouths", rep.Channels.Mouths).
		Msg("channels classified")

	// 4) Lake detection over the raw heights.
	rep.Lakes, err = lakes.Detect(m, rep.State,
		lakes.WithSeaLevel(cfg.SeaLevel),
		lakes.WithEpsilon(cfg.LakeEpsilon),
		lakes.WithSeedPercentile(cfg.SeedPercentile),
		lakes.WithRand(rng),
	)
	if err != nil {
		return nil, err
	}
	log.Info().Int("lakes", len(rep.Lakes)).Msg("lakes detected")

	// 5) Harvest river chains and synthesize geometry.
	rep.Rivers = harvest(m, rep.State)
	rep.Segments, err = rivergeom.Build(rep.Rivers,
		rivergeom.WithRand(rng),
		rivergeom.WithMeanderRange(cfg.MeanderMin, cfg.MeanderMax),
		rivergeom.WithAlpha(cfg.Alpha),
		rivergeom.WithWidth(cfg.WidthScale, cfg.WidthSaturation),
		rivergeom.WithShadow(cfg.ShadowScale, cfg.ShadowMin),
	)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("rivers", len(rep.Rivers)).
		Int("segments", len(rep.Segments)).
		Msg("river geometry built")

	// 6) Water-body classification over the cell polygons (skipped when
	//    the mesh carries no rings).
	if polys := polygons(m, cfg.SeaLevel); len(polys) > 0 {
		rep.Components, rep.Kinds, err = waterbody.Classify(polys, cfg.Bounds,
			waterbody.WithQuantum(cfg.Quantum),
			waterbody.WithBorderTol(cfg.BorderTol),
			waterbody.WithAreaThresholds(cfg.SeaAbsArea, cfg.SeaFracArea),
		)
		if err != nil {
			return nil, err
		}
		log.Info().Int("components", len(rep.Components)).Msg("water bodies classified")
	}

	rep.Elapsed = time.Since(started)

	return rep, nil
}

// harvest traces every river from its source down to its mouth and groups
// the samples per river; the river id is the source cell id. A chain stops
// after appending the first cell already claimed by an earlier chain (the
// confluence join) or the first non-river successor (the mouth), so each
// river cell's geometry is emitted exactly once.
func harvest(m *core.Mesh, st *core.State) []rivergeom.Run {
	n := m.NumCells()
	claimed := make([]bool, n)
	var runs []rivergeom.Run

	for id := 0; id < n; id++ {
		if !st.IsRiver[id] || st.RiverInDeg[id] != 0 {
			continue
		}
		run := rivergeom.Run{RiverID: id}
		cur := id
		for {
			run.Samples = append(run.Samples, sample(m, st, cur))
			if claimed[cur] {
				break // joined an earlier river at a confluence
			}
			claimed[cur] = true
			down := st.Down[cur]
			if down == core.NoCell {
				break
			}
			if !st.IsRiver[down] {
				run.Samples = append(run.Samples, sample(m, st, down))

				break // the mouth: ocean, lake, or plain land
			}
			cur = down
		}
		runs = append(runs, run)
	}

	return runs
}

// sample builds one flow sample; Q covers river cells, Flux the terminal
// non-river cell.
func sample(m *core.Mesh, st *core.State, id int) rivergeom.Sample {
	pt, _ := m.PointOf(id) // id comes from traversal, always in range
	q := st.Q[id]
	if q == 0 {
		q = st.Flux[id]
	}

	return rivergeom.Sample{Point: pt, Flux: q, Cell: id}
}

// polygons collects the usable cells' rings for water-body classification;
// returns nil when no cell has a usable ring.
func polygons(m *core.Mesh, seaLevel float64) []waterbody.Polygon {
	var polys []waterbody.Polygon
	any := false
	for id := 0; id < m.NumCells(); id++ {
		if !m.Usable(id) {
			continue
		}
		ring := m.Ring(id)
		if len(ring) >= 3 {
			any = true
		}
		polys = append(polys, waterbody.Polygon{
			ID:    id,
			Ring:  ring,
			Water: m.IsWater(id, seaLevel),
			Area:  m.Area(id),
		})
	}
	if !any {
		return nil
	}

	return polys
}
