package object

import (
	"math"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/physics"
)

// Particle is a short-lived visual effect. It never collides with anything.
type Particle struct {
	Entity
	Life    float64 // Remaining life; removed once <= 0
	MaxLife float64 // Initial life (for fade calculation)
}

// NewParticle creates a single particle at (x,y) moving with vel.
func NewParticle(id uint64, pos, vel physics.Vec, size, life float64, color string) *Particle {
	return &Particle{
		Entity: Entity{
			ID:    id,
			Pos:   pos,
			Size:  physics.Vec{X: size, Y: size},
			Vel:   vel,
			Color: color,
		},
		Life:    life,
		MaxLife: life,
	}
}

// SpawnExplosion creates a ring of particles bursting out of center.
// Directions are evenly spaced; each speed is uniform in
// [ParticleSpeedMin, ParticleSpeedMax).
func SpawnExplosion(center physics.Vec, color string, cfg config.Game, rng Rand, ids *IDSeq) []*Particle {
	count := cfg.ExplosionParticles
	if count <= 0 {
		return nil
	}

	particles := make([]*Particle, 0, count)
	step := 2 * math.Pi / float64(count)
	spread := cfg.ParticleSpeedMax - cfg.ParticleSpeedMin
	for i := 0; i < count; i++ {
		speed := cfg.ParticleSpeedMin + rng.Float64()*spread
		vel := physics.FromAngle(step*float64(i), speed)
		particles = append(particles, NewParticle(ids.Next(), center, vel, cfg.ParticleSize, cfg.ParticleLife, color))
	}
	return particles
}

// Age moves the particle and burns fadeRate*dt of its life.
func (p *Particle) Age(dt, fadeRate float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Life -= fadeRate * dt
	if p.Life <= 0 {
		p.MarkDestroyed()
	}
}

// Alpha is the remaining life clamped to [0,1], for fade-out rendering.
func (p *Particle) Alpha() float64 {
	return physics.Clamp(p.Life, 0, 1)
}
