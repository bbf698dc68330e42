package rule

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind selects how a cell's render color is derived.
type ColorKind int

const (
	// SingleColor paints every cell with the primary color.
	SingleColor ColorKind = iota
	// StateLerp blends from primary to secondary as the cell decays.
	StateLerp
	// DistToCenter blends from primary to secondary with distance from the
	// grid center.
	DistToCenter
	// NeighbourCount blends from primary to secondary with neighbour
	// density.
	NeighbourCount
)

// RGBA is a color with float components in [0, 1].
type RGBA [4]float32

// ColorMethod maps cell state to a render color.
type ColorMethod struct {
	Kind    ColorKind
	Primary colorful.Color
	Second  colorful.Color
}

// NewColorMethod builds a color method from two hex color strings.
func NewColorMethod(kind ColorKind, primary, second string) (ColorMethod, error) {
	p, err := colorful.Hex(primary)
	if err != nil {
		return ColorMethod{}, fmt.Errorf("rule: primary color %q: %w", primary, err)
	}
	s, err := colorful.Hex(second)
	if err != nil {
		return ColorMethod{}, fmt.Errorf("rule: secondary color %q: %w", second, err)
	}
	return ColorMethod{Kind: kind, Primary: p, Second: s}, nil
}

// MustColorMethod is NewColorMethod for compile-time constant colors.
func MustColorMethod(kind ColorKind, primary, second string) ColorMethod {
	m, err := NewColorMethod(kind, primary, second)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseColorKind maps a config string to a ColorKind.
func ParseColorKind(s string) (ColorKind, error) {
	switch s {
	case "single":
		return SingleColor, nil
	case "state-lerp":
		return StateLerp, nil
	case "dist-to-center":
		return DistToCenter, nil
	case "neighbour-count":
		return NeighbourCount, nil
	}
	return 0, fmt.Errorf("rule: unknown color method %q", s)
}

// Color derives the render color of a cell. dist is the normalized distance
// from the grid center in [0, 1].
func (m ColorMethod) Color(states, value, neighbours uint8, dist float32) RGBA {
	switch m.Kind {
	case StateLerp:
		t := 0.0
		if states > 0 {
			t = 1 - float64(value)/float64(states)
		}
		return toRGBA(m.Primary.BlendRgb(m.Second, t))
	case DistToCenter:
		return toRGBA(m.Primary.BlendHcl(m.Second, float64(dist)).Clamped())
	case NeighbourCount:
		return toRGBA(m.Primary.BlendRgb(m.Second, float64(neighbours)/maxNeighbours))
	default:
		return toRGBA(m.Primary)
	}
}

func toRGBA(c colorful.Color) RGBA {
	return RGBA{float32(c.R), float32(c.G), float32(c.B), 1}
}
