package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSimConfig_IsValid(t *testing.T) {
	cfg := DefaultSimConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "particles", cfg.Pool.Name)
	assert.Equal(t, 1024, cfg.Pool.Capacity)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"negative capacity", func(c *SimConfig) { c.Pool.Capacity = -1 }},
		{"empty pool name", func(c *SimConfig) { c.Pool.Name = "" }},
		{"negative ticks", func(c *SimConfig) { c.Run.Ticks = -5 }},
		{"negative spawn rate", func(c *SimConfig) { c.Run.SpawnPerTick = -1 }},
		{"zero ttl", func(c *SimConfig) { c.Run.TTLTicks = 0 }},
		{"metrics without addr", func(c *SimConfig) {
			c.Observability.EnableMetrics = true
			c.Observability.MetricsAddr = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadSim_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	content := `
pool:
  name: enemies
  capacity: 64
run:
  ticks: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadSim(path)
	require.NoError(t, err)

	assert.Equal(t, "enemies", cfg.Pool.Name)
	assert.Equal(t, 64, cfg.Pool.Capacity)
	assert.Equal(t, 10, cfg.Run.Ticks)
	// Unset values keep their defaults.
	assert.Equal(t, 16, cfg.Run.SpawnPerTick)
	assert.Equal(t, 20, cfg.Run.TTLTicks)
}

func TestLoadSim_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  capacity: -3\n"), 0600))

	_, err := LoadSim(path)
	assert.Error(t, err)
}

func TestLoad_SubstitutesEnvVars(t *testing.T) {
	t.Setenv("SLOTSIM_POOL_NAME", "bullets")

	path := filepath.Join(t.TempDir(), "sim.yaml")
	content := "pool:\n  name: ${SLOTSIM_POOL_NAME}\n  capacity: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultSimConfig()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "bullets", cfg.Pool.Name)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	src := DefaultSimConfig()
	src.Run.Seed = 42
	require.NoError(t, Save(path, src))

	loaded, err := LoadSim(path)
	require.NoError(t, err)
	assert.Equal(t, src, loaded)
}
