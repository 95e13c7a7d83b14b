package world

import (
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

// Particle is a purely decorative entity: it never interacts with balls or
// gates and dies when its lifetime runs out.
type Particle struct {
	Pos     geom.Vec2
	Vel     geom.Vec2
	Color   palette.RGB
	Size    float64
	Life    float64
	MaxLife float64
	Glow    bool
}

// SpawnFunc hands a fresh particle to the world's particle pool.
type SpawnFunc func(Particle)

const particleFriction = 0.98

// Update advances the particle and reports whether it is still alive.
func (p *Particle) Update(dt float64) bool {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Vel = p.Vel.Scale(particleFriction)
	p.Life -= dt
	return p.Life > 0
}

// Alpha is the remaining-life fraction used for fade-out rendering.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	a := p.Life / p.MaxLife
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
