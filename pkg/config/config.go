// Package config defines the simulation configuration and YAML loading.
package config

import (
	"fmt"
)

// SimConfig is the top-level configuration for a simulation run.
type SimConfig struct {
	Pool          PoolConfig          `yaml:"pool"`
	Run           RunConfig           `yaml:"run"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PoolConfig sizes the slot pool.
type PoolConfig struct {
	// Name labels the pool in logs and metrics.
	Name string `yaml:"name"`
	// Capacity is the fixed slot count. Must be non-negative.
	Capacity int `yaml:"capacity"`
}

// RunConfig controls the simulation loop.
type RunConfig struct {
	// Ticks is the number of simulation steps to run.
	Ticks int `yaml:"ticks"`
	// SpawnPerTick is how many particles are spawned each tick.
	// Spawns beyond the pool's free slots are dropped.
	SpawnPerTick int `yaml:"spawn_per_tick"`
	// TTLTicks is how many ticks a spawned particle lives.
	TTLTicks int `yaml:"ttl_ticks"`
	// Seed makes runs reproducible. Zero seeds from the current time.
	Seed int64 `yaml:"seed"`
}

// ObservabilityConfig controls logging and metrics exposure.
type ObservabilityConfig struct {
	LogLevel      string `yaml:"log_level"`
	Development   bool   `yaml:"development"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	MetricsAddr   string `yaml:"metrics_addr"`
}

// DefaultSimConfig returns a configuration with sensible defaults.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		Pool: PoolConfig{
			Name:     "particles",
			Capacity: 1024,
		},
		Run: RunConfig{
			Ticks:        100,
			SpawnPerTick: 16,
			TTLTicks:     20,
			Seed:         0,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			Development:   false,
			EnableMetrics: false,
			MetricsAddr:   ":9090",
		},
	}
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *SimConfig) Validate() error {
	if c.Pool.Capacity < 0 {
		return fmt.Errorf("pool.capacity must be non-negative, got %d", c.Pool.Capacity)
	}
	if c.Pool.Name == "" {
		return fmt.Errorf("pool.name must not be empty")
	}
	if c.Run.Ticks < 0 {
		return fmt.Errorf("run.ticks must be non-negative, got %d", c.Run.Ticks)
	}
	if c.Run.SpawnPerTick < 0 {
		return fmt.Errorf("run.spawn_per_tick must be non-negative, got %d", c.Run.SpawnPerTick)
	}
	if c.Run.TTLTicks <= 0 {
		return fmt.Errorf("run.ttl_ticks must be positive, got %d", c.Run.TTLTicks)
	}
	if c.Observability.EnableMetrics && c.Observability.MetricsAddr == "" {
		return fmt.Errorf("observability.metrics_addr must be set when metrics are enabled")
	}
	return nil
}
