// Package world owns the simulation state: balls, gates, particles and the
// fixed-timestep clock. One State is built per render job, stepped once per
// frame, and discarded after the final frame.
package world

import (
	"log"
	"math"
	"math/rand"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

// Mode selects the gate lifecycle variant.
type Mode int

const (
	// ModeCascade stacks explosive gates: each pass-through destroys the
	// current gate and arms the next one, ending in victory.
	ModeCascade Mode = iota
	// ModeInfinite runs recycling gates that shrink and respawn until the
	// passage budget is spent.
	ModeInfinite
)

// Options collects everything needed to build a State. Values are assumed
// validated by the config layer.
type Options struct {
	Bounds        geom.Rect
	Gravity       geom.Vec2
	Mode          Mode
	GateCount     int
	MinRadius     float64
	Spacing       float64 // radial gap between consecutive bands
	Thickness     float64
	GapWidth      float64 // degrees
	RotationSpeed float64 // deg/s for the innermost gate
	GapSpeedStep  float64 // extra deg/s per gate index
	StartAngle    float64
	RandomGap     bool
	AllOpen       bool // open every gap at start instead of only the innermost
	BallCount     int
	BallRadius    float64
	Elasticity    float64
	ShrinkFactor  float64
	MinGateRadius float64
	MaxPassages   int
	MaxParticles  int
	Palette       *palette.Palette
	Seed          int64
}

// State drives one simulation. Not safe for concurrent use; the frame
// producer is the only caller.
type State struct {
	opts      Options
	dt        float64
	frame     int
	Balls     []*Ball
	Gates     []Gate
	particles []Particle
	emitter   *events.Emitter
	rng       *rand.Rand
	shake     Shake

	level           int // cascade: index of the gate currently armed
	passages        int
	recyclingDone   bool
	won             bool
	particleDrops   int
	warnedParticles bool
}

func New(opts Options, em *events.Emitter, dt float64) *State {
	if opts.MaxParticles <= 0 {
		opts.MaxParticles = 600
	}
	s := &State{
		opts:    opts,
		dt:      dt,
		emitter: em,
		rng:     rand.New(rand.NewSource(opts.Seed)),
	}
	s.buildGates()
	s.buildBalls()
	return s
}

func (s *State) center() geom.Vec2 {
	return geom.V(s.opts.Bounds.W/2, s.opts.Bounds.H/2)
}

func (s *State) buildGates() {
	o := s.opts
	for i := 0; i < o.GateCount; i++ {
		outer := o.MinRadius + float64(i)*(o.Thickness+o.Spacing)
		rot := o.RotationSpeed + o.GapSpeedStep*float64(i)
		start := o.StartAngle
		if o.RandomGap {
			start = s.rng.Float64() * 360
		}
		color := o.Palette.At(i)

		switch o.Mode {
		case ModeInfinite:
			s.Gates = append(s.Gates, NewRecyclingGate(
				s.center(), outer, o.Thickness, start, o.GapWidth, rot,
				color, o.ShrinkFactor, o.MinGateRadius, s.rng))
		default:
			g := NewExplosiveGate(
				s.center(), outer, o.Thickness, start, o.GapWidth, rot, color, s.rng)
			// Initial arming happens silently: no activation events before
			// the clock starts.
			if o.AllOpen || i == 0 {
				g.state = StateArc
			}
			s.Gates = append(s.Gates, g)
		}
	}
}

func (s *State) buildBalls() {
	o := s.opts
	n := o.BallCount
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		ang := 2 * math.Pi * float64(i) / float64(n)
		pos := s.center().Add(geom.V(math.Cos(ang)*50, math.Sin(ang)*50))
		vel := geom.V(
			200+s.rng.Float64()*150,
			200+s.rng.Float64()*150,
		)
		s.Balls = append(s.Balls, NewBall(pos, vel, o.BallRadius, o.Elasticity, o.Palette.At(i)))
	}
}

// Time is the simulation clock: frame index times the fixed timestep.
func (s *State) Time() float64 { return float64(s.frame) * s.dt }

func (s *State) Frame() int               { return s.frame }
func (s *State) Particles() []Particle    { return s.particles }
func (s *State) ShakeOffset() geom.Vec2   { return s.shake.Offset }
func (s *State) Passages() int            { return s.passages }
func (s *State) Won() bool                { return s.won }
func (s *State) Emitter() *events.Emitter { return s.emitter }

// Step advances the world by one fixed timestep.
func (s *State) Step() {
	now := s.Time()
	emit := s.emitter.Emit

	s.shake.Update(s.dt, s.rng)

	for _, g := range s.Gates {
		g.Update(s.dt, now, emit, s.spawn)
	}

	for _, b := range s.Balls {
		res := b.Update(s.dt, s.opts.Gravity, s.opts.Bounds, s.Gates, now, emit)
		for _, imp := range res.Impacts {
			s.onImpact(b, imp)
		}
		for _, c := range res.Crossings {
			if c.Inner {
				s.onPassage(b, c, now)
			}
		}
	}

	s.updateParticles()
	s.frame++
}

func (s *State) onImpact(b *Ball, imp Impact) {
	s.burstFromImpact(b, imp)
	if r, ok := imp.Gate.(interface{ markHit() }); ok {
		r.markHit()
	}
	if imp.Gate != nil {
		// Ring-side sparks on top of the ball's own burst.
		if rg, ok := imp.Gate.(*ExplosiveGate); ok {
			rg.burst(10, s.spawn)
		} else if rg, ok := imp.Gate.(*RecyclingGate); ok {
			rg.burst(10, s.spawn)
		}
	}
	if force := imp.Speed / 200; force > 0.2 {
		s.shake.Start(math.Min(10, force*3), math.Min(0.2, force*0.1))
	}
}

// burstFromImpact scatters particles around the contact point, biased along
// the reflected direction.
func (s *State) burstFromImpact(b *Ball, imp Impact) {
	base := imp.Speed * 0.3
	for i := 0; i < 15; i++ {
		ang := (s.rng.Float64() - 0.5) * math.Pi
		sin, cos := math.Sincos(ang)
		dir := geom.V(
			imp.Normal.X*cos-imp.Normal.Y*sin,
			imp.Normal.X*sin+imp.Normal.Y*cos,
		)
		life := 0.3 + s.rng.Float64()*0.4
		s.spawn(Particle{
			Pos:     imp.Point,
			Vel:     dir.Scale(base * (0.5 + s.rng.Float64()*1.5)),
			Color:   palette.Jitter(b.Color, 30, 50, s.rng),
			Size:    2 + s.rng.Float64()*4,
			Life:    life,
			MaxLife: life,
			Glow:    s.rng.Float64() < 0.3,
		})
	}
}

// onPassage handles a ball slipping through an open gap at the inner
// boundary of a gate.
func (s *State) onPassage(b *Ball, c Crossing, now float64) {
	switch s.opts.Mode {
	case ModeCascade:
		s.cascadePassage(b, c, now)
	case ModeInfinite:
		s.infinitePassage(b, c, now)
	}
}

func (s *State) cascadePassage(b *Ball, c Crossing, now float64) {
	if s.won || s.level >= len(s.Gates) {
		return
	}
	current, ok := s.Gates[s.level].(*ExplosiveGate)
	if !ok || c.Gate != Gate(current) || !current.GapOpen() {
		return
	}

	s.passages++
	s.emitPassage(b, c, now)
	current.TriggerDisappear(now, s.emitter.Emit, s.spawn)

	s.level++
	if s.level < len(s.Gates) {
		if next, ok := s.Gates[s.level].(*ExplosiveGate); ok {
			next.Activate(now, s.emitter.Emit, s.spawn)
		}
		return
	}

	s.won = true
	s.shake.Start(8, 0.5)
	s.emitVictory(b, now)
}

func (s *State) infinitePassage(b *Ball, c Crossing, now float64) {
	if s.recyclingDone {
		return
	}
	// Re-entry counts, escape does not: the ball must be falling back toward
	// the center when it threads the gap.
	if !c.Inward {
		return
	}
	g, ok := c.Gate.(*RecyclingGate)
	if !ok {
		return
	}
	if !g.Recycle(now, s.emitter.Emit, s.spawn) {
		return
	}

	s.passages++
	s.emitPassage(b, c, now)

	if s.opts.MaxPassages > 0 && s.passages >= s.opts.MaxPassages {
		s.recyclingDone = true
		s.won = true
		s.shake.Start(8, 0.5)
		s.emitVictory(b, now)
	}
}

func (s *State) emitPassage(b *Ball, c Crossing, now float64) {
	pos := c.Point
	s.emitter.Emit(events.Event{
		Type: events.Passage,
		Time: now,
		Pos:  &pos,
		Params: map[string]any{
			"passage": s.passages,
			"speed":   b.Vel.Len(),
		},
	})
}

func (s *State) emitVictory(b *Ball, now float64) {
	pos := b.Pos
	label := b.Label
	if label == "" {
		label = "Ball"
	}
	s.emitter.Emit(events.Event{
		Type:   events.Victory,
		Time:   now,
		Pos:    &pos,
		Params: map[string]any{"ball_name": label},
	})
}

// spawn adds a particle, evicting the oldest when the population cap is
// reached. Overflow is a visual degradation, never an error.
func (s *State) spawn(p Particle) {
	if len(s.particles) >= s.opts.MaxParticles {
		s.particles = s.particles[1:]
		s.particleDrops++
		if !s.warnedParticles {
			log.Printf("world: particle cap %d reached, trimming oldest", s.opts.MaxParticles)
			s.warnedParticles = true
		}
	}
	s.particles = append(s.particles, p)
}

func (s *State) updateParticles() {
	alive := s.particles[:0]
	for i := range s.particles {
		if s.particles[i].Update(s.dt) {
			alive = append(alive, s.particles[i])
		}
	}
	s.particles = alive
}

// Shake is the screen-shake effect driven by strong impacts. Offsets apply
// to rendering only.
type Shake struct {
	intensity float64
	duration  float64
	Offset    geom.Vec2
}

func (sh *Shake) Start(intensity, duration float64) {
	if intensity > sh.intensity {
		sh.intensity = intensity
		sh.duration = duration
	}
}

func (sh *Shake) Update(dt float64, rng *rand.Rand) {
	if sh.duration <= 0 {
		return
	}
	sh.duration -= dt
	if sh.duration <= 0 {
		sh.intensity = 0
		sh.Offset = geom.Vec2{}
		return
	}
	sh.Offset = geom.V(
		(rng.Float64()*2-1)*sh.intensity,
		(rng.Float64()*2-1)*sh.intensity,
	)
}
