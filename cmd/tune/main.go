// Package main searches arena parameters with CMA-ES so the population
// settles around a target size.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/telemetry"
)

// tuner is the CMA-ES objective: it scores a point, logs it and keeps the
// best point seen.
type tuner struct {
	knobs    Knobs
	eval     *FitnessEvaluator
	log      *telemetry.CSVLog[evalRecord]
	maxEvals int
	target   float64

	evals   int
	best    float64
	bestX   []float64
	started time.Time
}

func (t *tuner) objective(unit []float64) float64 {
	x := t.knobs.Clamp(t.knobs.Denormalize(unit))
	fitness := t.eval.Evaluate(x)
	mean := t.eval.LastMean()
	t.evals++

	if fitness < t.best || t.bestX == nil {
		t.best, t.bestX = fitness, x
	}
	if err := t.log.Write(newEvalRecord(t.evals, fitness, mean, x)); err != nil {
		slog.Error("failed to log evaluation", "error", err)
	}

	elapsed := time.Since(t.started)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	fmt.Printf("eval %3d/%d  mean %5.1f / %.0f  err %8.2f  best %8.2f  [%s, eta %s]\n",
		t.evals, t.maxEvals, mean, t.target, fitness, t.best,
		clockTime(elapsed), clockTime(eta))
	return fitness
}

// clockTime renders d as 1h02m03s, or 2m03s under an hour.
func clockTime(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 36000, "Simulation length per seed in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	target := flag.Float64("target", 30, "Target mean ball count")
	statsWindow := flag.Float64("stats-window", 10, "Stats window size in seconds")
	outputDir := flag.String("output", "", "Output directory for results")
	verbose := flag.Bool("v", false, "Log every simulation run")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *outputDir == "" {
		fatal("--output is required", nil)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", err)
	}
	baseCfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config", err)
	}

	runSeeds := make([]int64, *seeds)
	for i := range runSeeds {
		runSeeds[i] = 42 + 1000*int64(i)
	}

	knobs := DefaultKnobs()
	log, err := telemetry.CreateCSVLog[evalRecord](filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		fatal("failed to create log file", err)
	}
	defer log.Close()

	t := &tuner{
		knobs:    knobs,
		eval:     NewFitnessEvaluator(knobs, *maxTicks, runSeeds, baseCfg, *target, *statsWindow),
		log:      log,
		maxEvals: *maxEvals,
		target:   *target,
		best:     math.Inf(1),
		started:  time.Now(),
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(len(knobs))))
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Seeds already run in parallel inside each evaluation.
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("tuning %d knobs: population %d, %d evals, %d seeds x %d ticks, target %.0f balls\n",
		len(knobs), popSize, *maxEvals, *seeds, *maxTicks, *target)

	result, err := optimize.Minimize(optimize.Problem{Func: t.objective}, knobs.Normalize(knobs.Read(baseCfg)), settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if t.bestX == nil && result != nil {
		t.bestX = knobs.Clamp(knobs.Denormalize(result.X))
	}
	if t.bestX == nil {
		fatal("no evaluation completed", nil)
	}

	fmt.Printf("\n%d evaluations in %s, best error %.3f\n", t.evals, clockTime(time.Since(t.started)), t.best)
	for i, k := range knobs {
		fmt.Printf("  %-22s %.6f\n", k.Path, t.bestX[i])
	}

	bestCfg := baseCfg.Clone()
	knobs.Apply(bestCfg, t.bestX)
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		fatal("failed to write best config", err)
	}
	fmt.Printf("best config written to %s\n", out)
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
