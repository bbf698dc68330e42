package rule

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds a rule from the compact community notation
// "survival/birth/states/neighbourhood", e.g. "4/4/5/M" or
// "9-26/5-7,12-13,15/5/M". Survival and birth are comma-separated lists of
// single counts and inclusive lo-hi spans and may be empty. The
// neighbourhood is M (Moore), N (von Neumann) or MP (planar Moore).
func Parse(notation string, color ColorMethod, boundingSize int) (Rule, error) {
	parts := strings.Split(notation, "/")
	if len(parts) != 4 {
		return Rule{}, fmt.Errorf("rule: notation %q: want 4 segments, got %d", notation, len(parts))
	}

	survival, err := parseRanges(parts[0])
	if err != nil {
		return Rule{}, fmt.Errorf("rule: notation %q: survival: %w", notation, err)
	}
	birth, err := parseRanges(parts[1])
	if err != nil {
		return Rule{}, fmt.Errorf("rule: notation %q: birth: %w", notation, err)
	}

	states, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return Rule{}, fmt.Errorf("rule: notation %q: states: %w", notation, err)
	}

	var nb Neighbourhood
	switch strings.ToUpper(parts[3]) {
	case "M":
		nb = Moore
	case "N":
		nb = VonNeumann
	case "MP":
		nb = MoorePlane
	default:
		return Rule{}, fmt.Errorf("rule: notation %q: unknown neighbourhood %q", notation, parts[3])
	}

	return New(survival, birth, uint8(states), nb, color, boundingSize)
}

func parseRanges(s string) (Ranges, error) {
	var r Ranges
	if s == "" {
		return r, nil
	}
	for _, item := range strings.Split(s, ",") {
		lo, hi, found := strings.Cut(item, "-")
		loV, err := strconv.ParseUint(lo, 10, 8)
		if err != nil {
			return Ranges{}, fmt.Errorf("bad count %q: %w", item, err)
		}
		if !found {
			r = r.Union(NewRanges(uint8(loV)))
			continue
		}
		hiV, err := strconv.ParseUint(hi, 10, 8)
		if err != nil {
			return Ranges{}, fmt.Errorf("bad span %q: %w", item, err)
		}
		if hiV < loV {
			return Ranges{}, fmt.Errorf("span %q is inverted", item)
		}
		r = r.Union(NewRangeSpan(uint8(loV), uint8(hiV)))
	}
	return r, nil
}

// Preset is a named builtin rule.
type Preset struct {
	Name     string
	Notation string
	Color    ColorMethod
	Bounding int
}

// Presets lists the builtin rules, keyed by name. They come from the usual
// 3D cellular automaton catalogue.
var Presets = map[string]Preset{
	"445": {
		Name:     "445",
		Notation: "4/4/5/M",
		Color:    MustColorMethod(StateLerp, "#ffeb3b", "#f44336"),
		Bounding: 64,
	},
	"amoeba": {
		Name:     "amoeba",
		Notation: "9-26/5-7,12-13,15/5/M",
		Color:    MustColorMethod(DistToCenter, "#00e5ff", "#3d5afe"),
		Bounding: 96,
	},
	"builder": {
		Name:     "builder",
		Notation: "2,6,9/4,6,8-9/10/M",
		Color:    MustColorMethod(StateLerp, "#ffd54f", "#6a1b9a"),
		Bounding: 64,
	},
	"clouds": {
		Name:     "clouds",
		Notation: "13-26/13-14,17-19/2/M",
		Color:    MustColorMethod(DistToCenter, "#eceff1", "#607d8b"),
		Bounding: 96,
	},
	"crystal": {
		Name:     "crystal",
		Notation: "0-6/1,3/2/N",
		Color:    MustColorMethod(DistToCenter, "#b2ebf2", "#01579b"),
		Bounding: 64,
	},
	"pyroclastic": {
		Name:     "pyroclastic",
		Notation: "4-7/6-8/10/M",
		Color:    MustColorMethod(StateLerp, "#ff9800", "#212121"),
		Bounding: 64,
	},
	"slow-decay": {
		Name:     "slow-decay",
		Notation: "8,11,13-26/13-26/5/M",
		Color:    MustColorMethod(NeighbourCount, "#76ff03", "#1b5e20"),
		Bounding: 96,
	},
}

// FromPreset builds the named builtin rule. An overrideBounding of 0 keeps
// the preset's own bounding size.
func FromPreset(name string, overrideBounding int) (Rule, error) {
	p, ok := Presets[name]
	if !ok {
		return Rule{}, fmt.Errorf("rule: unknown preset %q", name)
	}
	bounding := p.Bounding
	if overrideBounding > 0 {
		bounding = overrideBounding
	}
	return Parse(p.Notation, p.Color, bounding)
}
