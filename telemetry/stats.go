package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population
	Balls     int     `csv:"balls"`
	BallsMean float64 `csv:"balls_mean"`
	BallsMax  int     `csv:"balls_max"`

	// Events during window
	WallCollisions int `csv:"wall_collisions"`
	BallCollisions int `csv:"ball_collisions"`
	Escapes        int `csv:"escapes"`
	Spawns         int `csv:"spawns"`

	// Motion (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
	SpinMean  float64 `csv:"spin_mean"` // mean |angular velocity|

	// Controls at window end
	Bounciness float64 `csv:"bounciness"`
	Gravity    string  `csv:"gravity"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SpeedStats summarizes a set of speeds.
type SpeedStats struct {
	Mean, Std, P50, P90, Max float64
}

// ComputeSpeedStats calculates mean, population std, percentiles and max.
// values is sorted in place.
func ComputeSpeedStats(values []float64) SpeedStats {
	if len(values) == 0 {
		return SpeedStats{}
	}

	sort.Float64s(values)
	mean, variance := stat.PopMeanVariance(values, nil)
	std := math.Sqrt(math.Max(variance, 0))

	return SpeedStats{
		Mean: mean,
		Std:  std,
		P50:  Percentile(values, 0.50),
		P90:  Percentile(values, 0.90),
		Max:  floats.Max(values),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("balls", s.Balls),
		slog.Float64("balls_mean", s.BallsMean),
		slog.Int("balls_max", s.BallsMax),
		slog.Int("wall_collisions", s.WallCollisions),
		slog.Int("ball_collisions", s.BallCollisions),
		slog.Int("escapes", s.Escapes),
		slog.Int("spawns", s.Spawns),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("spin_mean", s.SpinMean),
		slog.Float64("bounciness", s.Bounciness),
		slog.String("gravity", s.Gravity),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"balls", s.Balls,
		"balls_mean", s.BallsMean,
		"balls_max", s.BallsMax,
		"wall_collisions", s.WallCollisions,
		"ball_collisions", s.BallCollisions,
		"escapes", s.Escapes,
		"spawns", s.Spawns,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"spin_mean", s.SpinMean,
		"bounciness", s.Bounciness,
		"gravity", s.Gravity,
	)
}
