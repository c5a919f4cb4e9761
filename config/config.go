// Package config loads pipeline parameters from TOML files with a
// default overlay: keys absent from the file keep their
// pipeline.DefaultParams values, so a config file only needs to name what
// it changes.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/hydromesh/flux"
	"github.com/katalvlaran/hydromesh/pipeline"
	"github.com/katalvlaran/hydromesh/waterbody"
)

// Sentinel errors for config loading.
var (
	// ErrBadMethod indicates an unknown flow.method value.
	ErrBadMethod = errors.New(`config: flow.method must be "topological" or "relaxation"`)

	// ErrBadBounds indicates a waterbodies.bounds array that is not
	// [min_x, min_y, max_x, max_y].
	ErrBadBounds = errors.New("config: waterbodies.bounds must hold exactly four numbers")
)

// fileConfig is the TOML key mapping for simulation parameters.
type fileConfig struct {
	Seed     int64   `toml:"seed"`
	SeaLevel float64 `toml:"sea_level"`

	Depression struct {
		Epsilon   float64 `toml:"epsilon"`
		MaxPasses int     `toml:"max_passes"`
	} `toml:"depression"`

	Flow struct {
		Runoff        float64 `toml:"runoff"`
		Method        string  `toml:"method"`
		RelaxPasses   int     `toml:"relax_passes"`
		RelaxFraction float64 `toml:"relax_fraction"`
	} `toml:"flow"`

	Channels struct {
		Percentile       float64 `toml:"percentile"`
		AbsFloor         float64 `toml:"abs_floor"`
		SlopeMin         float64 `toml:"slope_min"`
		MinSources       int     `toml:"min_sources"`
		MinSourceDivisor int     `toml:"min_source_divisor"`
	} `toml:"channels"`

	Lakes struct {
		Epsilon        float64 `toml:"epsilon"`
		SeedPercentile float64 `toml:"seed_percentile"`
	} `toml:"lakes"`

	Waterbodies struct {
		Bounds      []float64 `toml:"bounds"`
		Quantum     float64   `toml:"quantum"`
		BorderTol   float64   `toml:"border_tol"`
		SeaAbsArea  float64   `toml:"sea_abs_area"`
		SeaFracArea float64   `toml:"sea_frac_area"`
	} `toml:"waterbodies"`

	Rivers struct {
		MeanderMin      float64 `toml:"meander_min"`
		MeanderMax      float64 `toml:"meander_max"`
		Alpha           float64 `toml:"alpha"`
		WidthScale      float64 `toml:"width_scale"`
		WidthSaturation float64 `toml:"width_saturation"`
		ShadowScale     float64 `toml:"shadow_scale"`
		ShadowMin       float64 `toml:"shadow_min"`
	} `toml:"rivers"`
}

// Load reads a TOML file and overlays it onto pipeline.DefaultParams for
// the given map bounds (overridden by waterbodies.bounds when present).
func Load(path string, bounds waterbody.Rect) (pipeline.Params, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return pipeline.Params{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	return overlay(&raw, meta, bounds)
}

// Decode parses TOML data and overlays it onto pipeline.DefaultParams.
func Decode(data []byte, bounds waterbody.Rect) (pipeline.Params, error) {
	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return pipeline.Params{}, fmt.Errorf("config: decode: %w", err)
	}

	return overlay(&raw, meta, bounds)
}

// overlay applies every key the file actually defines onto the defaults.
func overlay(raw *fileConfig, meta toml.MetaData, bounds waterbody.Rect) (pipeline.Params, error) {
	cfg := pipeline.DefaultParams(bounds)

	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("sea_level") {
		cfg.SeaLevel = raw.SeaLevel
	}

	if meta.IsDefined("depression", "epsilon") {
		cfg.Epsilon = raw.Depression.Epsilon
	}
	if meta.IsDefined("depression", "max_passes") {
		cfg.MaxPasses = raw.Depression.MaxPasses
	}

	if meta.IsDefined("flow", "runoff") {
		cfg.RunoffBaseline = raw.Flow.Runoff
	}
	if meta.IsDefined("flow", "method") {
		switch raw.Flow.Method {
		case "topological":
			cfg.Method = flux.MethodTopological
		case "relaxation":
			cfg.Method = flux.MethodRelaxation
		default:
			return pipeline.Params{}, fmt.Errorf("%w: %q", ErrBadMethod, raw.Flow.Method)
		}
	}
	if meta.IsDefined("flow", "relax_passes") {
		cfg.RelaxPasses = raw.Flow.RelaxPasses
	}
	if meta.IsDefined("flow", "relax_fraction") {
		cfg.RelaxFraction = raw.Flow.RelaxFraction
	}

	if meta.IsDefined("channels", "percentile") {
		cfg.Percentile = raw.Channels.Percentile
	}
	if meta.IsDefined("channels", "abs_floor") {
		cfg.AbsFloor = raw.Channels.AbsFloor
	}
	if meta.IsDefined("channels", "slope_min") {
		cfg.SlopeMin = raw.Channels.SlopeMin
	}
	if meta.IsDefined("channels", "min_sources") {
		cfg.MinSources = raw.Channels.MinSources
	}
	if meta.IsDefined("channels", "min_source_divisor") {
		cfg.MinSourceDivisor = raw.Channels.MinSourceDivisor
	}

	if meta.IsDefined("lakes", "epsilon") {
		cfg.LakeEpsilon = raw.Lakes.Epsilon
	}
	if meta.IsDefined("lakes", "seed_percentile") {
		cfg.SeedPercentile = raw.Lakes.SeedPercentile
	}

	if meta.IsDefined("waterbodies", "bounds") {
		if len(raw.Waterbodies.Bounds) != 4 {
			return pipeline.Params{}, ErrBadBounds
		}
		b := raw.Waterbodies.Bounds
		cfg.Bounds = waterbody.Rect{MinX: b[0], MinY: b[1], MaxX: b[2], MaxY: b[3]}
	}
	if meta.IsDefined("waterbodies", "quantum") {
		cfg.Quantum = raw.Waterbodies.Quantum
	}
	if meta.IsDefined("waterbodies", "border_tol") {
		cfg.BorderTol = raw.Waterbodies.BorderTol
	}
	if meta.IsDefined("waterbodies", "sea_abs_area") {
		cfg.SeaAbsArea = raw.Waterbodies.SeaAbsArea
	}
	if meta.IsDefined("waterbodies", "sea_frac_area") {
		cfg.SeaFracArea = raw.Waterbodies.SeaFracArea
	}

	if meta.IsDefined("rivers", "meander_min") {
		cfg.MeanderMin = raw.Rivers.MeanderMin
	}
	if meta.IsDefined("rivers", "meander_max") {
		cfg.MeanderMax = raw.Rivers.MeanderMax
	}
	if meta.IsDefined("rivers", "alpha") {
		cfg.Alpha = raw.Rivers.Alpha
	}
	if meta.IsDefined("rivers", "width_scale") {
		cfg.WidthScale = raw.Rivers.WidthScale
	}
	if meta.IsDefined("rivers", "width_saturation") {
		cfg.WidthSaturation = raw.Rivers.WidthSaturation
	}
	if meta.IsDefined("rivers", "shadow_scale") {
		cfg.ShadowScale = raw.Rivers.ShadowScale
	}
	if meta.IsDefined("rivers", "shadow_min") {
		cfg.ShadowMin = raw.Rivers.ShadowMin
	}

	return cfg, nil
}
