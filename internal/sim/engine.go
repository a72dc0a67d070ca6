package sim

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/arenakit/slotpool/pkg/config"
	"github.com/arenakit/slotpool/pkg/metrics"
	"github.com/arenakit/slotpool/pkg/sloterrors"
	"github.com/arenakit/slotpool/pkg/slotpool"
)

// Engine drives a particle simulation over a slot pool. It owns the pool and
// must be used from a single goroutine.
type Engine struct {
	cfg  *config.SimConfig
	pool *slotpool.Pool[Particle]
	rng  *rand.Rand
	log  *zap.Logger
	obs  *metrics.Observer

	tick    int
	spawned uint64
	dropped uint64
	expired uint64
}

// Report summarizes a finished run.
type Report struct {
	Ticks     int            `json:"ticks"`
	Spawned   uint64         `json:"spawned"`
	Dropped   uint64         `json:"dropped"`
	Expired   uint64         `json:"expired"`
	InUse     int            `json:"in_use"`
	Capacity  int            `json:"capacity"`
	PoolStats slotpool.Stats `json:"pool_stats"`
}

// NewEngine creates an engine for the given configuration. A zero seed is
// replaced with the current time so unconfigured runs still vary.
func NewEngine(cfg *config.SimConfig, log *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := slotpool.New[Particle](cfg.Pool.Capacity)
	if err != nil {
		return nil, err
	}

	seed := cfg.Run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:  cfg,
		pool: pool,
		rng:  rand.New(rand.NewSource(seed)), //nolint:gosec // simulation, not crypto
		log:  log.With(zap.String("pool", cfg.Pool.Name)),
	}
	if cfg.Observability.EnableMetrics {
		e.obs = metrics.NewObserver(cfg.Pool.Name, pool.Stats())
	}
	return e, nil
}

// Pool exposes the underlying pool, mainly for tests.
func (e *Engine) Pool() *slotpool.Pool[Particle] {
	return e.pool
}

// Tick runs one simulation step: spawn new particles into free slots, advance
// every live particle, then release the slots of particles that expired.
func (e *Engine) Tick() {
	timer := metrics.NewTimer("tick")
	e.tick++

	for i := 0; i < e.cfg.Run.SpawnPerTick; i++ {
		_, idx, err := e.pool.UseNextReplaceWith(e.newParticle())
		if errors.Is(err, sloterrors.ErrFull) {
			e.dropped++
			continue
		}
		if err != nil {
			e.log.Error("spawn failed", zap.Int("tick", e.tick), zap.Error(err))
			continue
		}
		e.spawned++
		e.log.Debug("spawned", zap.Int("tick", e.tick), zap.Int("slot", idx))
	}

	// Releasing a slot mid-iteration would invalidate the traversal, so
	// expired slots are collected first and freed after.
	var expired []int
	for idx, p := range e.pool.Active() {
		p.Step()
		if !p.Alive() {
			expired = append(expired, idx)
		}
	}
	for _, idx := range expired {
		if err := e.pool.UnUse(idx); err != nil {
			e.log.Error("release failed", zap.Int("slot", idx), zap.Error(err))
			continue
		}
		e.expired++
	}

	if e.obs != nil {
		metrics.ObservePool(e.obs, e.pool)
	}
	metrics.TickDuration.Observe(float64(timer.Stop().Nanoseconds()))

	e.log.Debug("tick done",
		zap.Int("tick", e.tick),
		zap.Int("in_use", e.pool.InUse()),
		zap.Int("expired", len(expired)))
}

// Run executes ticks until the configured count is reached or the context is
// canceled. It returns the report for the completed portion of the run.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	for i := 0; i < e.cfg.Run.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return e.Report(), err
		}
		e.Tick()
	}
	return e.Report(), nil
}

// Report returns the current run summary.
func (e *Engine) Report() Report {
	return Report{
		Ticks:     e.tick,
		Spawned:   e.spawned,
		Dropped:   e.dropped,
		Expired:   e.expired,
		InUse:     e.pool.InUse(),
		Capacity:  e.pool.Size(),
		PoolStats: e.pool.Stats(),
	}
}

func (e *Engine) newParticle() Particle {
	return Particle{
		X:   e.rng.Float64() * 100,
		Y:   e.rng.Float64() * 100,
		VX:  e.rng.Float64()*2 - 1,
		VY:  e.rng.Float64()*2 - 1,
		TTL: e.cfg.Run.TTLTicks,
	}
}
