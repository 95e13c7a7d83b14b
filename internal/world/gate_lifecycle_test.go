package world_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
	"github.com/san-kum/ringfall/internal/world"
)

var _ = Describe("ExplosiveGate", func() {
	var (
		gate    *world.ExplosiveGate
		emitter *events.Emitter
		spawned int
		spawn   world.SpawnFunc
	)

	BeforeEach(func() {
		rng := rand.New(rand.NewSource(42))
		gate = world.NewExplosiveGate(geom.V(500, 500), 200, 15, 0, 60, 90, palette.RGB{R: 255}, rng)
		emitter = events.NewEmitter()
		spawned = 0
		spawn = func(world.Particle) { spawned++ }
	})

	It("starts as a closed, collidable circle", func() {
		Expect(gate.State()).To(Equal(world.StateCircle))
		Expect(gate.Collidable()).To(BeTrue())
		Expect(gate.GapOpen()).To(BeFalse())
		Expect(gate.InGap(10)).To(BeFalse(), "closed circle must have no pass-through arc")
		Expect(gate.Opacity()).To(Equal(1.0))
	})

	Describe("Activate", func() {
		It("opens the gap and emits one activation event", func() {
			gate.Activate(1.0, emitter.Emit, spawn)

			Expect(gate.State()).To(Equal(world.StateArc))
			Expect(gate.GapOpen()).To(BeTrue())
			Expect(gate.InGap(10)).To(BeTrue())
			Expect(emitter.Count(events.Activation)).To(Equal(1))
			Expect(spawned).To(BeNumerically(">", 0))
		})

		It("is idempotent", func() {
			gate.Activate(1.0, emitter.Emit, spawn)
			before := spawned

			gate.Activate(1.1, emitter.Emit, spawn)
			gate.Activate(1.2, emitter.Emit, spawn)

			Expect(emitter.Count(events.Activation)).To(Equal(1))
			Expect(spawned).To(Equal(before))
		})
	})

	Describe("TriggerDisappear", func() {
		It("is a no-op before activation", func() {
			gate.TriggerDisappear(1.0, emitter.Emit, spawn)

			Expect(gate.State()).To(Equal(world.StateCircle))
			Expect(emitter.Len()).To(BeZero())
		})

		It("starts the fade and emits one explosion", func() {
			gate.Activate(1.0, emitter.Emit, spawn)
			gate.TriggerDisappear(2.0, emitter.Emit, spawn)

			Expect(gate.State()).To(Equal(world.StateDisappearing))
			Expect(gate.Collidable()).To(BeFalse())
			Expect(gate.GapOpen()).To(BeFalse())
			Expect(emitter.Count(events.Explosion)).To(Equal(1))
		})

		It("cannot fire twice", func() {
			gate.Activate(1.0, emitter.Emit, spawn)
			gate.TriggerDisappear(2.0, emitter.Emit, spawn)
			gate.TriggerDisappear(2.1, emitter.Emit, spawn)

			Expect(emitter.Count(events.Explosion)).To(Equal(1))
		})

		It("fades out and reaches the terminal state", func() {
			gate.Activate(1.0, emitter.Emit, spawn)
			gate.TriggerDisappear(2.0, emitter.Emit, spawn)

			dt := 1.0 / 60.0
			for i := 0; i < 90; i++ { // 1.5s, past the fade duration
				gate.Update(dt, 2.0+float64(i)*dt, emitter.Emit, spawn)
			}

			Expect(gate.State()).To(Equal(world.StateGone))
			Expect(gate.Opacity()).To(BeZero())
			Expect(gate.Collidable()).To(BeFalse())
		})
	})

	Describe("gap rotation", func() {
		It("rotates only while the arc is open", func() {
			start := gate.GapStart()
			gate.Update(0.5, 0.5, emitter.Emit, spawn)
			Expect(gate.GapStart()).To(Equal(start), "closed circle must not rotate")

			gate.Activate(1.0, emitter.Emit, spawn)
			gate.Update(0.5, 1.5, emitter.Emit, spawn)
			Expect(gate.GapStart()).NotTo(Equal(start))
			Expect(gate.GapStart()).To(BeNumerically(">=", 0))
			Expect(gate.GapStart()).To(BeNumerically("<", 360))
		})
	})
})

var _ = Describe("RecyclingGate", func() {
	var (
		gate    *world.RecyclingGate
		emitter *events.Emitter
		spawn   world.SpawnFunc
	)

	BeforeEach(func() {
		rng := rand.New(rand.NewSource(7))
		gate = world.NewRecyclingGate(geom.V(500, 500), 300, 15, 0, 60, 90, palette.RGB{G: 255}, 0.85, 100, rng)
		emitter = events.NewEmitter()
		spawn = func(world.Particle) {}
	})

	It("starts active with an open gap", func() {
		Expect(gate.State()).To(Equal(world.StateActive))
		Expect(gate.Collidable()).To(BeTrue())
		Expect(gate.GapOpen()).To(BeTrue())
	})

	Describe("Recycle", func() {
		It("shrinks by the shrink factor and re-rolls the gap", func() {
			before := gate.OuterRadius()
			Expect(gate.Recycle(1.0, emitter.Emit, spawn)).To(BeTrue())

			Expect(gate.State()).To(Equal(world.StateRecycling))
			Expect(gate.OuterRadius()).To(BeNumerically("~", before*0.85, 1e-9))
			Expect(gate.Cycles()).To(Equal(1))
		})

		It("refuses re-entry while mid-recycle", func() {
			Expect(gate.Recycle(1.0, emitter.Emit, spawn)).To(BeTrue())
			after := gate.OuterRadius()

			Expect(gate.Recycle(1.0, emitter.Emit, spawn)).To(BeFalse())
			Expect(gate.OuterRadius()).To(Equal(after))
			Expect(gate.Cycles()).To(Equal(1))
		})

		It("never shrinks below the minimum radius", func() {
			dt := 1.0 / 60.0
			for i := 0; i < 50; i++ {
				gate.Recycle(float64(i), emitter.Emit, spawn)
				// Run the recycle animation out so the next cycle is allowed.
				for j := 0; j < 60; j++ {
					gate.Update(dt, float64(i)+float64(j)*dt, emitter.Emit, spawn)
				}
			}
			Expect(gate.OuterRadius()).To(BeNumerically(">=", 100))
		})

		It("returns to active after the animation", func() {
			gate.Recycle(1.0, emitter.Emit, spawn)
			Expect(gate.Collidable()).To(BeFalse())

			dt := 1.0 / 60.0
			for i := 0; i < 60; i++ {
				gate.Update(dt, 1.0+float64(i)*dt, emitter.Emit, spawn)
			}

			Expect(gate.State()).To(Equal(world.StateActive))
			Expect(gate.Collidable()).To(BeTrue())
			Expect(gate.Opacity()).To(Equal(1.0))
		})

		It("emits nothing by itself", func() {
			gate.Recycle(1.0, emitter.Emit, spawn)
			Expect(emitter.Len()).To(BeZero())
		})
	})
})
