package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydromesh/flux"
	"github.com/katalvlaran/hydromesh/pipeline"
	"github.com/katalvlaran/hydromesh/waterbody"
)

var testBounds = waterbody.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

func TestDecode_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Decode(nil, testBounds)
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultParams(testBounds), cfg)
}

func TestDecode_OverlaysOnlyDefinedKeys(t *testing.T) {
	cfg, err := Decode([]byte(`
seed = 42
sea_level = 0.35

[flow]
method = "relaxation"
relax_passes = 50

[channels]
percentile = 0.9

[rivers]
meander_max = 0.8
`), testBounds)
	require.NoError(t, err)

	def := pipeline.DefaultParams(testBounds)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.35, cfg.SeaLevel)
	assert.Equal(t, flux.MethodRelaxation, cfg.Method)
	assert.Equal(t, 50, cfg.RelaxPasses)
	assert.Equal(t, 0.9, cfg.Percentile)
	assert.Equal(t, 0.8, cfg.MeanderMax)

	// Untouched keys keep their defaults.
	assert.Equal(t, def.RelaxFraction, cfg.RelaxFraction)
	assert.Equal(t, def.Epsilon, cfg.Epsilon)
	assert.Equal(t, def.MeanderMin, cfg.MeanderMin)
	assert.Equal(t, def.Bounds, cfg.Bounds)
}

func TestDecode_BoundsOverride(t *testing.T) {
	cfg, err := Decode([]byte(`
[waterbodies]
bounds = [1.0, 2.0, 11.0, 22.0]
sea_frac_area = 0.25
`), testBounds)
	require.NoError(t, err)
	assert.Equal(t, waterbody.Rect{MinX: 1, MinY: 2, MaxX: 11, MaxY: 22}, cfg.Bounds)
	assert.Equal(t, 0.25, cfg.SeaFracArea)
}

func TestDecode_BadValues(t *testing.T) {
	_, err := Decode([]byte("[flow]\nmethod = \"psychic\"\n"), testBounds)
	assert.ErrorIs(t, err, ErrBadMethod)

	_, err = Decode([]byte("[waterbodies]\nbounds = [1.0, 2.0]\n"), testBounds)
	assert.ErrorIs(t, err, ErrBadBounds)

	_, err = Decode([]byte("seed = \"not a number\""), testBounds)
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hydromesh.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 7\n"), 0o600))

	cfg, err := Load(path, testBounds)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)

	_, err = Load(filepath.Join(dir, "missing.toml"), testBounds)
	assert.Error(t, err)
}
