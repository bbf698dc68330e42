// Package noisegen provides the pattern seeding generators used to populate
// the lattice around its center. The engine only depends on the callback
// contract; the concrete generators here are interchangeable.
package noisegen

import (
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/lattice/grid"
)

// Generator proposes seed positions around a center point. The spawn
// callback is invoked once per proposed position; positions may repeat and
// may fall on already-live cells, the engine filters those.
type Generator interface {
	Generate(center grid.Vec3, spawn func(pos grid.Vec3))
}

// Simplex seeds cells where 3D simplex noise exceeds a threshold, giving
// blobby connected starting shapes. Deterministic for a given seed.
type Simplex struct {
	noise     opensimplex.Noise
	radius    int
	frequency float64
	threshold float64
}

// NewSimplex builds a simplex generator sampling a cube of the given radius
// around the center. Threshold is in [-1, 1]; lower values seed more cells.
func NewSimplex(seed int64, radius int, frequency, threshold float64) *Simplex {
	if radius < 1 {
		radius = 1
	}
	if frequency <= 0 {
		frequency = 0.1
	}
	return &Simplex{
		noise:     opensimplex.New(seed),
		radius:    radius,
		frequency: frequency,
		threshold: threshold,
	}
}

// Generate samples the cube [center-radius, center+radius] on each axis.
func (s *Simplex) Generate(center grid.Vec3, spawn func(pos grid.Vec3)) {
	for z := -s.radius; z <= s.radius; z++ {
		for y := -s.radius; y <= s.radius; y++ {
			for x := -s.radius; x <= s.radius; x++ {
				v := s.noise.Eval3(
					float64(x)*s.frequency,
					float64(y)*s.frequency,
					float64(z)*s.frequency,
				)
				if v > s.threshold {
					spawn(center.Add(grid.Vec3{X: x, Y: y, Z: z}))
				}
			}
		}
	}
}

// Scatter seeds a fixed number of uniformly random positions in a cube
// around the center. Positions may repeat.
type Scatter struct {
	rng    *rand.Rand
	radius int
	amount int
}

// NewScatter builds a scatter generator proposing amount positions within
// the given radius of the center.
func NewScatter(seed int64, radius, amount int) *Scatter {
	if radius < 1 {
		radius = 1
	}
	if amount < 0 {
		amount = 0
	}
	return &Scatter{
		rng:    rand.New(rand.NewPCG(uint64(seed), 0)),
		radius: radius,
		amount: amount,
	}
}

// Generate proposes the configured number of random positions.
func (s *Scatter) Generate(center grid.Vec3, spawn func(pos grid.Vec3)) {
	span := 2*s.radius + 1
	for i := 0; i < s.amount; i++ {
		spawn(center.Add(grid.Vec3{
			X: s.rng.IntN(span) - s.radius,
			Y: s.rng.IntN(span) - s.radius,
			Z: s.rng.IntN(span) - s.radius,
		}))
	}
}
