package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type SeriesStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func Describe(samples []float64) SeriesStats {
	if len(samples) == 0 {
		return SeriesStats{}
	}
	mean, std := stat.MeanStdDev(samples, nil)
	return SeriesStats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(samples),
		Max:  floats.Max(samples),
	}
}
