package snow

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Field", func() {
	var (
		rng    *rand.Rand
		params Params
		field  *Field
	)

	const w, h = 800.0, 600.0

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
		params = DefaultParams()
		var err error
		field, err = NewField(params, w, h, rng)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("initialization", func() {
		It("creates the configured number of fresh flakes", func() {
			Expect(field.Len()).To(Equal(300))
			Expect(field.Pool().Allocated()).To(Equal(300))
			Expect(field.Pool().Free()).To(BeZero())
		})

		It("places every flake strictly above the surface within the sampled ranges", func() {
			field.Each(func(p *Particle) {
				Expect(p.Y).To(BeNumerically("<", 0))
				Expect(p.X).To(BeNumerically(">=", 0))
				Expect(p.X).To(BeNumerically("<", w))
				Expect(p.Size).To(BeNumerically(">=", 3))
				Expect(p.Size).To(BeNumerically("<", 6))
				Expect(p.SpeedY).To(BeNumerically(">=", 0.5))
				Expect(p.SpeedY).To(BeNumerically("<", 1.5))
				Expect(p.WindInterval).To(BeNumerically(">=", 2000))
				Expect(p.WindInterval).To(BeNumerically("<", 5000))
				Expect(p.Shape).To(BeNumerically("<", shapeCount))
			})
		})

		It("rejects a degenerate surface", func() {
			for _, size := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 10}, {10, math.Inf(1)}} {
				_, err := NewField(params, size[0], size[1], rng)
				Expect(errors.Is(err, ErrInvalidSurface)).To(BeTrue(), "size %v", size)
			}
		})

		It("rejects invalid params", func() {
			params.SizeMin = 0
			_, err := NewField(params, w, h, rng)
			Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())
		})
	})

	Describe("wind drift", func() {
		It("never overshoots the target speed", func() {
			for i := 0; i < 2000; i++ {
				p := Particle{
					Size:         3,
					SpeedX:       rng.Float64() - 0.5,
					TargetSpeedX: rng.Float64() - 0.5,
					WindInterval: math.MaxFloat64,
				}
				before, target := p.SpeedX, p.TargetSpeedX
				dt := rng.Float64() * 500

				p.update(dt, params, w, h, rng)

				lo, hi := math.Min(before, target), math.Max(before, target)
				Expect(p.SpeedX).To(BeNumerically(">=", lo))
				Expect(p.SpeedX).To(BeNumerically("<=", hi))
			}
		})

		It("picks a new target inside the symmetric range once the gust timer fires", func() {
			p := Particle{Size: 3, WindInterval: 10}
			p.update(11, params, w, h, rng)

			Expect(p.WindTimer).To(BeZero())
			Expect(p.TargetSpeedX).To(BeNumerically(">=", -0.5))
			Expect(p.TargetSpeedX).To(BeNumerically("<", 0.5))
			Expect(p.WindInterval).To(BeNumerically(">=", 2000))
			Expect(p.WindInterval).To(BeNumerically("<", 7000))
		})

		It("moves toward the target at the configured rate", func() {
			p := Particle{Size: 3, TargetSpeedX: 1, WindInterval: math.MaxFloat64}
			p.update(100, params, w, h, rng)
			Expect(p.SpeedX).To(BeNumerically("~", 0.2, 1e-12))
		})
	})

	Describe("wraparound", func() {
		It("re-enters from above after leaving the bottom", func() {
			p := Particle{X: 100, Y: h + 3, Size: 3, SpeedY: 1, WindInterval: math.MaxFloat64}
			p.update(16.7, params, w, h, rng)

			Expect(p.Y).To(BeNumerically("<", 0))
			Expect(p.Y).To(BeNumerically(">=", -h-p.Size))
			Expect(p.X).To(BeNumerically(">=", 0))
			Expect(p.X).To(BeNumerically("<", w))
		})

		It("wraps the right edge to minus size", func() {
			p := Particle{X: w + 4.5, Y: 10, Size: 4, WindInterval: math.MaxFloat64}
			p.update(16.7, params, w, h, rng)
			Expect(p.X).To(Equal(-4.0))
		})

		It("wraps the left edge to width plus size", func() {
			p := Particle{X: -4.5, Y: 10, Size: 4, WindInterval: math.MaxFloat64}
			p.update(16.7, params, w, h, rng)
			Expect(p.X).To(Equal(w + 4))
		})

		It("never lets a flake sink below height plus size", func() {
			for i := 0; i < 5000; i++ {
				field.Update(16.7)
				field.Each(func(p *Particle) {
					Expect(p.Y).To(BeNumerically("<=", h+p.Size))
				})
			}
		})
	})

	Describe("resize", func() {
		It("changes the surface without moving flakes", func() {
			var before []Particle
			field.Each(func(p *Particle) { before = append(before, *p) })

			Expect(field.Resize(400, 300)).To(Succeed())
			gw, gh := field.Size()
			Expect(gw).To(Equal(400.0))
			Expect(gh).To(Equal(300.0))

			i := 0
			field.Each(func(p *Particle) {
				Expect(*p).To(Equal(before[i]))
				i++
			})
		})

		It("brings stray flakes back inside after shrinking", func() {
			Expect(field.Resize(200, 150)).To(Succeed())
			for i := 0; i < 3000; i++ {
				field.Update(16.7)
			}
			field.Each(func(p *Particle) {
				Expect(p.X).To(BeNumerically(">=", -p.Size))
				Expect(p.X).To(BeNumerically("<=", 200+p.Size))
				Expect(p.Y).To(BeNumerically("<=", 150+p.Size))
			})
		})

		It("refuses an empty surface", func() {
			Expect(errors.Is(field.Resize(0, 0), ErrInvalidSurface)).To(BeTrue())
		})
	})

	Describe("pool release", func() {
		It("returns all flakes and recycles them on refill", func() {
			Expect(field.Release()).To(Succeed())
			Expect(field.Len()).To(BeZero())
			Expect(field.Pool().Free()).To(Equal(300))

			field.Fill(300)
			Expect(field.Pool().Allocated()).To(Equal(300))
			Expect(field.Pool().Free()).To(BeZero())
			field.Each(func(p *Particle) {
				Expect(p.Y).To(BeNumerically("<", 0))
			})
		})
	})

	Describe("long run", func() {
		It("keeps 300 flakes finite over 10,000 ticks of 16.7ms", func() {
			drawn := 0
			for i := 0; i < 10000; i++ {
				field.Tick(16.7, func(p *Particle) {
					drawn++
					if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
						Fail("non-finite particle position")
					}
				})
			}
			Expect(drawn).To(Equal(300 * 10000))
		})

		It("treats negative and NaN deltas as zero", func() {
			p := field.Pool().At(0)
			timer := p.WindTimer
			field.Update(-5)
			field.Update(math.NaN())
			Expect(p.WindTimer).To(Equal(timer))
		})
	})
})
