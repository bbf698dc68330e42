package main

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/lattice/config"
	"github.com/pthm-cable/lattice/engine"
	"github.com/pthm-cable/lattice/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxGens    int
	seeds      []int64
	baseConfig *config.Config
	windowGens int

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxGens int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxGens:     maxGens,
		seeds:       seeds,
		baseConfig:  baseCfg,
		windowGens:  32,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A pattern that stops spawning and dying has collapsed into static debris.
// After this many consecutive quiet windows the run is cut short.
const frozenGraceWindows = 3

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalGens int                     // generations before extinction or freeze (maxGens if neither)
	windowStats  []telemetry.WindowStats // one record per completed stats window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival generations scaled by a quality bonus:
// longer-lived, more stable populations score lower.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel, each with a slice of the machine
	workersPerRun := runtime.GOMAXPROCS(0) / len(fe.seeds)
	if workersPerRun < 1 {
		workersPerRun = 1
	}

	results := make([]seedResult, len(fe.seeds))
	var g errgroup.Group

	for i, seed := range fe.seeds {
		idx, s := i, seed
		g.Go(func() error {
			result, err := fe.runSimulation(x, s, workersPerRun)
			if err != nil {
				return err
			}
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: quality,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Invalid parameter combinations score as immediate death
		return 0
	}

	// Aggregate results
	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run. Stops at extinction, at a
// frozen pattern, or at maxGens, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64, workers int) (*runResult, error) {
	// Fresh config copy with this vector's parameters applied
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	r, err := cfg.BuildRule()
	if err != nil {
		return nil, err
	}
	gen, err := cfg.BuildGenerator(seed)
	if err != nil {
		return nil, err
	}

	e := engine.New()
	pool := engine.NewPool(workers)
	defer pool.Close()

	e.Resize(r.BoundingSize)
	e.SpawnNoise(r, gen)

	result := &runResult{}
	collector := telemetry.NewCollector(fe.windowGens)
	quietWindows := 0

	for generation := 1; generation <= fe.maxGens; generation++ {
		stats := e.Step(r, pool)
		population := e.CellCount()
		collector.RecordGeneration(stats.Spawns, stats.Deaths, population)

		if collector.ShouldFlush(generation) {
			window := collector.Flush(generation, population)
			result.windowStats = append(result.windowStats, window)

			if window.Spawns == 0 && window.Deaths == 0 {
				quietWindows++
			} else {
				quietWindows = 0
			}
			if quietWindows >= frozenGraceWindows {
				result.survivalGens = generation
				return result, nil
			}
		}

		if population == 0 {
			result.survivalGens = generation
			return result, nil
		}
	}

	// Survived the full run
	result.survivalGens = fe.maxGens
	return result, nil
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")

	cfg.World = fe.baseConfig.World
	cfg.Rule = fe.baseConfig.Rule
	cfg.Noise = fe.baseConfig.Noise
	cfg.Engine = fe.baseConfig.Engine
	cfg.Telemetry = fe.baseConfig.Telemetry

	return cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalGens × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// parameter sets with similar survival.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalGens)
	quality := fe.computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightDensity   = 0.35
	qualityWeightStability = 0.40
	qualityWeightChurn     = 0.25

	qualityWarmupWindows = 2 // skip first N windows (seeding transient)
	qualityTargetDensity = 0.05
)

// computeQuality computes pattern quality in [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	valid := windows[qualityWarmupWindows:]

	size := fe.baseConfig.World.Size
	if size == 0 {
		size = 64
	}
	volume := float64(size * size * size)

	var densitySum, churnSum float64
	var densityCount, churnCount int
	populations := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Population == 0 {
			continue
		}

		populations = append(populations, float64(w.Population))

		// 1. Density score: how close the mean fill fraction is to target
		density := w.PopMean / volume
		logErr := math.Log(density / qualityTargetDensity)
		densitySum += math.Exp(-logErr * logErr)
		densityCount++

		// 3. Churn score: ongoing births relative to population size
		spawnsPerCell := w.SpawnRate / float64(w.Population)
		churnSum += 1.0 - math.Exp(-spawnsPerCell/0.02)
		churnCount++
	}

	if densityCount == 0 {
		return 0
	}

	densityScore := densitySum / float64(densityCount)

	// 2. Population stability (CV across valid windows)
	stabilityScore := 0.0
	if len(populations) >= 2 {
		c := cv(populations)
		stabilityScore = math.Exp(-c * c)
	}

	churnScore := 0.0
	if churnCount > 0 {
		churnScore = churnSum / float64(churnCount)
	}

	quality := qualityWeightDensity*densityScore +
		qualityWeightStability*stabilityScore +
		qualityWeightChurn*churnScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
