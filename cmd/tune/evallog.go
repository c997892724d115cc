package main

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	MeanBalls     float64 `csv:"mean_balls"`
	Friction      float64 `csv:"friction"`
	Bounciness    float64 `csv:"bounciness"`
	RotationSpeed float64 `csv:"rotation_speed"`
	GapAngle      float64 `csv:"gap_angle"`
}

func newEvalRecord(eval int, fitness, mean float64, values []float64) evalRecord {
	return evalRecord{
		Eval:          eval,
		Fitness:       fitness,
		MeanBalls:     mean,
		Friction:      values[0],
		Bounciness:    values[1],
		RotationSpeed: values[2],
		GapAngle:      values[3],
	}
}
