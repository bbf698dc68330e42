// Package grid implements the chunked toroidal cell lattice: integer vector
// math, the per-cell storage, fixed-size chunks, and the coordinate mapping
// between global positions, flat indices, and (chunk, offset) pairs.
package grid

import "math"

// Vec3 is an integer 3D coordinate or offset.
type Vec3 struct {
	X, Y, Z int
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// MaxAbs returns the largest absolute component value (Chebyshev magnitude).
func (v Vec3) MaxAbs() int {
	m := absInt(v.X)
	if a := absInt(v.Y); a > m {
		m = a
	}
	if a := absInt(v.Z); a > m {
		m = a
	}
	return m
}

// WrapCoord wraps a single coordinate into [0, size).
func WrapCoord(p, size int) int {
	return (p%size + size) % size
}

// Wrap wraps all three components of pos into [0, size) (torus topology).
func Wrap(pos Vec3, size int) Vec3 {
	return Vec3{
		X: WrapCoord(pos.X, size),
		Y: WrapCoord(pos.Y, size),
		Z: WrapCoord(pos.Z, size),
	}
}

// DistToCenter returns the Euclidean distance from pos to center, normalized
// by half the domain size and clamped to [0, 1]. Used by color methods.
func DistToCenter(pos, center Vec3, size int) float32 {
	if size <= 0 {
		return 0
	}
	d := pos.Sub(center)
	dist := math.Sqrt(float64(d.X*d.X + d.Y*d.Y + d.Z*d.Z))
	norm := dist / (float64(size) / 2)
	if norm > 1 {
		norm = 1
	}
	return float32(norm)
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
