package telemetry

// Collector accumulates generation events within windows and produces
// WindowStats.
type Collector struct {
	windowGenerations int

	windowStart int

	// Counters for the current window
	spawns      int
	deaths      int
	populations []float64
}

// NewCollector creates a new stats collector. windowGenerations is how many
// generations each stats window spans.
func NewCollector(windowGenerations int) *Collector {
	if windowGenerations < 1 {
		windowGenerations = 1
	}
	return &Collector{
		windowGenerations: windowGenerations,
		populations:       make([]float64, 0, windowGenerations),
	}
}

// RecordGeneration records the outcome of one completed generation.
func (c *Collector) RecordGeneration(spawns, deaths, population int) {
	c.spawns += spawns
	c.deaths += deaths
	c.populations = append(c.populations, float64(population))
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(generation int) bool {
	return generation-c.windowStart >= c.windowGenerations
}

// Flush produces a WindowStats and resets counters for the next window.
// population is the live cell count at the window boundary.
func (c *Collector) Flush(generation, population int) WindowStats {
	generations := len(c.populations)

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   generation,
		Generations: generations,
		Spawns:      c.spawns,
		Deaths:      c.deaths,
		Population:  population,
	}
	if generations > 0 {
		stats.SpawnRate = float64(c.spawns) / float64(generations)
		stats.DeathRate = float64(c.deaths) / float64(generations)
	}
	stats.PopMean, stats.PopStd, stats.PopP10, stats.PopP50, stats.PopP90 =
		ComputePopulationStats(c.populations)

	// Reset for next window
	c.windowStart = generation
	c.spawns = 0
	c.deaths = 0
	c.populations = c.populations[:0]

	return stats
}

// WindowGenerations returns the number of generations per window.
func (c *Collector) WindowGenerations() int {
	return c.windowGenerations
}
