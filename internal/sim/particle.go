// Package sim runs a particle simulation on top of a fixed-capacity slot
// pool. It exists to exercise the pool the way a game loop would: bursts of
// spawns, bulk per-tick updates over active slots, and releases that leave
// gaps for the free-slot search to fill.
package sim

// Particle is one simulated element. It lives in a pool slot for TTL ticks.
type Particle struct {
	X, Y   float64
	VX, VY float64
	TTL    int
}

// Alive reports whether the particle has ticks left to live.
func (p *Particle) Alive() bool {
	return p.TTL > 0
}

// Step advances the particle by one tick.
func (p *Particle) Step() {
	p.X += p.VX
	p.Y += p.VY
	p.TTL--
}
