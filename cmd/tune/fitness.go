package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/headless"
	"github.com/ggielly/suicideballs/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how closely the
// population holds a target size.
type FitnessEvaluator struct {
	knobs       Knobs
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	target      float64
	statsWindow float64

	mu       sync.Mutex
	lastMean float64 // mean population of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(knobs Knobs, maxTicks int, seeds []int64, baseCfg *config.Config, target, statsWindow float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		knobs:       knobs,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		statsWindow: statsWindow,
	}
}

// LastMean returns the mean population of the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate computes fitness for raw knob values (lower = better).
// Seeds run in parallel, each on its own world; the score is the mean over
// seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.knobs.Apply(cfg, x)
	if err := cfg.Validate(); err != nil {
		return math.Inf(1)
	}
	cfg.ComputeDerived()

	fitness := make([]float64, len(fe.seeds))
	means := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			windows := fe.runSimulation(cfg, seed)
			fitness[i] = populationError(windows, fe.target)
			means[i] = meanPopulation(windows)
		}()
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastMean = stat.Mean(means, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation runs one seed to maxTicks and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	r, err := headless.NewRunner(cfg, headless.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 60,
	})
	if err != nil {
		return nil
	}
	defer r.Close()

	var windows []telemetry.WindowStats
	r.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})
	r.Run(fe.maxTicks, nil)
	return windows
}

// scored drops the first window, which covers the initial fill from one ball.
func scored(windows []telemetry.WindowStats) []telemetry.WindowStats {
	if len(windows) > 1 {
		return windows[1:]
	}
	return windows
}

// populationError is the mean squared deviation of each window's mean
// population from target. No windows scores +Inf.
func populationError(windows []telemetry.WindowStats, target float64) float64 {
	windows = scored(windows)
	if len(windows) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, w := range windows {
		d := w.BallsMean - target
		sum += d * d
	}
	return sum / float64(len(windows))
}

// meanPopulation averages the window mean populations.
func meanPopulation(windows []telemetry.WindowStats) float64 {
	windows = scored(windows)
	if len(windows) == 0 {
		return 0
	}
	var sum float64
	for _, w := range windows {
		sum += w.BallsMean
	}
	return sum / float64(len(windows))
}
