// Package rule defines the automaton rule surface consumed by the engine:
// birth/survival predicates, state count, neighbourhood offsets, and the
// color method used when emitting render instances.
package rule

import (
	"fmt"

	"github.com/pthm-cable/lattice/grid"
)

// BorderRadius is the chunk-face band width the engine uses to decide
// between atomic and plain neighbour propagation. Rules whose neighbourhood
// reaches further than this are rejected at construction time: the interior
// fast path would race across chunk boundaries.
const BorderRadius = 1

// maxNeighbours is the largest count any supported neighbourhood can
// produce (full Moore).
const maxNeighbours = 26

// Ranges is a set of accepted neighbour counts, built from single values
// and inclusive spans. The zero value accepts nothing.
type Ranges struct {
	mask uint32
}

// NewRanges builds a Ranges accepting exactly the given counts.
func NewRanges(values ...uint8) Ranges {
	var r Ranges
	for _, v := range values {
		r.add(v)
	}
	return r
}

// NewRangeSpan builds a Ranges accepting every count in [lo, hi].
func NewRangeSpan(lo, hi uint8) Ranges {
	var r Ranges
	for v := lo; v <= hi && v <= maxNeighbours; v++ {
		r.add(v)
	}
	return r
}

// Union returns a Ranges accepting everything r or o accepts.
func (r Ranges) Union(o Ranges) Ranges {
	return Ranges{mask: r.mask | o.mask}
}

// InRange reports whether count is accepted.
func (r Ranges) InRange(count uint8) bool {
	if count > maxNeighbours {
		return false
	}
	return r.mask>>count&1 == 1
}

// IsEmpty reports whether no count at all is accepted.
func (r Ranges) IsEmpty() bool {
	return r.mask == 0
}

func (r *Ranges) add(v uint8) {
	if v <= maxNeighbours {
		r.mask |= 1 << v
	}
}

// Rule is a complete automaton rule. It is a small value type: generation
// tasks receive their own copy, so no rule state is ever shared between
// concurrent workers.
type Rule struct {
	Survival      Ranges
	Birth         Ranges
	States        uint8
	Neighbourhood Neighbourhood
	Color         ColorMethod

	// BoundingSize drives grid sizing: the engine resizes the domain to
	// cover this many cells per axis before every generation.
	BoundingSize int
}

// New assembles and validates a rule. The neighbourhood reach check is load
// bearing: the engine's non-atomic interior propagation path is only sound
// for offsets no further than BorderRadius from the source cell.
func New(survival, birth Ranges, states uint8, nb Neighbourhood, color ColorMethod, boundingSize int) (Rule, error) {
	if states < 1 {
		return Rule{}, fmt.Errorf("rule: states must be at least 1, got %d", states)
	}
	if boundingSize < 1 {
		return Rule{}, fmt.Errorf("rule: bounding size must be positive, got %d", boundingSize)
	}
	offsets := nb.Offsets()
	if len(offsets) == 0 {
		return Rule{}, fmt.Errorf("rule: unknown neighbourhood %v", nb)
	}
	for _, off := range offsets {
		if off.MaxAbs() > BorderRadius {
			return Rule{}, fmt.Errorf("rule: neighbourhood offset %v exceeds border radius %d", off, BorderRadius)
		}
	}
	return Rule{
		Survival:      survival,
		Birth:         birth,
		States:        states,
		Neighbourhood: nb,
		Color:         color,
		BoundingSize:  boundingSize,
	}, nil
}

// Neighbourhood selects the set of offset vectors defining which cells are
// neighbours.
type Neighbourhood int

const (
	// Moore is full 26-connectivity: every cell of the surrounding 3x3x3
	// cube except the center.
	Moore Neighbourhood = iota
	// VonNeumann is 6-connectivity: the face-adjacent cells only.
	VonNeumann
	// MoorePlane is 8-connectivity restricted to the z=0 plane. It makes
	// classical 2D rules (Conway) expressible on the 3D lattice.
	MoorePlane
)

var (
	mooreOffsets      = buildMoore()
	vonNeumannOffsets = []grid.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	moorePlaneOffsets = buildMoorePlane()
)

// Offsets returns the neighbourhood's offset vectors. The returned slice is
// shared and must not be mutated.
func (n Neighbourhood) Offsets() []grid.Vec3 {
	switch n {
	case Moore:
		return mooreOffsets
	case VonNeumann:
		return vonNeumannOffsets
	case MoorePlane:
		return moorePlaneOffsets
	}
	return nil
}

func (n Neighbourhood) String() string {
	switch n {
	case Moore:
		return "M"
	case VonNeumann:
		return "N"
	case MoorePlane:
		return "MP"
	}
	return fmt.Sprintf("Neighbourhood(%d)", int(n))
}

func buildMoore() []grid.Vec3 {
	offsets := make([]grid.Vec3, 0, 26)
	for z := -1; z <= 1; z++ {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				offsets = append(offsets, grid.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return offsets
}

func buildMoorePlane() []grid.Vec3 {
	offsets := make([]grid.Vec3, 0, 8)
	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			if x == 0 && y == 0 {
				continue
			}
			offsets = append(offsets, grid.Vec3{X: x, Y: y})
		}
	}
	return offsets
}
