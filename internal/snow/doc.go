// Package snow simulates the falling snowflakes of the card.
//
// The package owns three pieces:
//
//   - [Particle]: a single flake with position, fall speed and wind drift
//   - [Pool]: an arena of particles with a stack of free indices
//   - [Field]: the live set of flakes on a drawing surface
//
// # Example
//
//	rng := rand.New(rand.NewSource(1))
//	field, _ := snow.NewField(snow.DefaultParams(), 800, 600, rng)
//	field.Tick(16.7, func(p *snow.Particle) {
//		for _, s := range p.Segments(nil) {
//			canvas.DrawLine(s.X0, s.Y0, s.X1, s.Y1)
//		}
//	})
//
// # Thread Safety
//
// Field and Pool are NOT thread-safe. They are driven from a single
// animation loop.
package snow
