package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a generation window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`
	Generations int `csv:"generations"`

	// Events during window
	Spawns int `csv:"spawns"`
	Deaths int `csv:"deaths"`

	// Per-generation event rates
	SpawnRate float64 `csv:"spawn_rate"`
	DeathRate float64 `csv:"death_rate"`

	// Population at window end and its distribution over the window
	Population int     `csv:"population"`
	PopMean    float64 `csv:"pop_mean"`
	PopStd     float64 `csv:"pop_std"`
	PopP10     float64 `csv:"pop_p10"`
	PopP50     float64 `csv:"pop_p50"`
	PopP90     float64 `csv:"pop_p90"`
}

// Log emits the window as one structured log record.
func (s WindowStats) Log() {
	slog.Info("window",
		"window_end", s.WindowEnd,
		"generations", s.Generations,
		"population", s.Population,
		"spawns", s.Spawns,
		"deaths", s.Deaths,
		"spawn_rate", s.SpawnRate,
		"death_rate", s.DeathRate,
		"pop_mean", s.PopMean,
		"pop_std", s.PopStd,
	)
}

// ComputePopulationStats summarizes a window's per-generation populations:
// mean, standard deviation, and the 10/50/90 percentiles.
func ComputePopulationStats(populations []float64) (mean, std, p10, p50, p90 float64) {
	if len(populations) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(populations, nil)
	if len(populations) > 1 {
		std = stat.StdDev(populations, nil)
	}

	sorted := make([]float64, len(populations))
	copy(sorted, populations)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}
