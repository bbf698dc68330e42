package noisegen

import (
	"testing"

	"github.com/pthm-cable/lattice/grid"
)

func TestSimplexDeterministic(t *testing.T) {
	center := grid.Vec3{X: 32, Y: 32, Z: 32}

	collect := func() []grid.Vec3 {
		var out []grid.Vec3
		NewSimplex(42, 6, 0.2, 0.1).Generate(center, func(p grid.Vec3) {
			out = append(out, p)
		})
		return out
	}

	a, b := collect(), collect()
	if len(a) == 0 {
		t.Fatal("simplex generator proposed no positions")
	}
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSimplexStaysInCube(t *testing.T) {
	center := grid.Vec3{X: 10, Y: 10, Z: 10}
	radius := 4
	NewSimplex(1, radius, 0.3, -0.5).Generate(center, func(p grid.Vec3) {
		if p.Sub(center).MaxAbs() > radius {
			t.Fatalf("position %v outside radius %d of %v", p, radius, center)
		}
	})
}

func TestScatter(t *testing.T) {
	center := grid.Vec3{X: 16, Y: 16, Z: 16}
	radius := 5
	amount := 200

	count := 0
	NewScatter(7, radius, amount).Generate(center, func(p grid.Vec3) {
		count++
		if p.Sub(center).MaxAbs() > radius {
			t.Fatalf("position %v outside radius %d of %v", p, radius, center)
		}
	})
	if count != amount {
		t.Errorf("proposed %d positions, want %d", count, amount)
	}
}

func TestScatterDeterministic(t *testing.T) {
	center := grid.Vec3{}
	first := []grid.Vec3{}
	NewScatter(99, 3, 16).Generate(center, func(p grid.Vec3) { first = append(first, p) })

	i := 0
	NewScatter(99, 3, 16).Generate(center, func(p grid.Vec3) {
		if p != first[i] {
			t.Fatalf("position %d differs between identical seeds", i)
		}
		i++
	})
}
