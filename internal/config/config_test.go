package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadijoo/quarter_car_go/internal/params"
	"github.com/mohammadijoo/quarter_car_go/internal/road"
	"github.com/mohammadijoo/quarter_car_go/internal/sim"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, params.Default(), cfg.Params)
	assert.Equal(t, sim.DefaultGrid(), cfg.Grid)
	assert.Equal(t, road.DefaultConfig(), cfg.Road)
	assert.Equal(t, filepath.Join("output", "quarter_car"), cfg.Output.Dir)
	assert.True(t, cfg.Output.Frames)
	assert.True(t, cfg.Output.Video)
	assert.True(t, cfg.Output.CSV)
	assert.Equal(t, 150, cfg.Output.DPI)
	assert.Equal(t, 100, cfg.Output.Progress)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := writeConfig(t, `{
		"logLevel": "debug",
		"params": { "ks": 60000, "vel": 3.5 },
		"grid": { "duration": 4 },
		"output": { "dir": "/tmp/qc", "video": false, "dpi": 300 }
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 60000.0, cfg.Params.Ks)
	assert.Equal(t, 3.5, cfg.Params.Vel)
	assert.Equal(t, params.Default().Cs, cfg.Params.Cs)
	assert.Equal(t, params.SprungMass, cfg.Params.SprungMass)
	assert.Equal(t, 4.0, cfg.Grid.Duration)
	assert.Equal(t, sim.DefaultGrid().FrameRate, cfg.Grid.FrameRate)
	assert.Equal(t, "/tmp/qc", cfg.Output.Dir)
	assert.False(t, cfg.Output.Video)
	assert.True(t, cfg.Output.Frames)
	assert.Equal(t, 300, cfg.Output.DPI)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QCAR_PARAMS_CS", "2500")
	t.Setenv("QCAR_LOGLEVEL", "warn")
	t.Setenv("QCAR_OUTPUT_CSV", "false")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 2500.0, cfg.Params.Cs)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Output.CSV)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := writeConfig(t, `{ "params": { "kt": 100000 } }`)
	t.Setenv("QCAR_PARAMS_KT", "300000")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 300000.0, cfg.Params.Kt)
}

func TestLoad_MassesAreFixed(t *testing.T) {
	dir := writeConfig(t, `{ "params": { "sprungMass": 1, "unsprungMass": 2, "ks": 20000 } }`)
	t.Setenv("QCAR_PARAMS_SPRUNGMASS", "3")
	t.Setenv("QCAR_PARAMS_UNSPRUNGMASS", "4")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, params.SprungMass, cfg.Params.SprungMass)
	assert.Equal(t, params.UnsprungMass, cfg.Params.UnsprungMass)
	assert.Equal(t, 20000.0, cfg.Params.Ks)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := writeConfig(t, `{ "params": `)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
