package util

import (
	"math"
)

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

// Stats summarizes a series of samples, e.g. the operations per second of every
// worker of a perf run.
type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the standard deviation, minimum, and maximum values
// from an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	// initialize min and max with the first value
	min := values[0]
	max := values[0]

	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	// population standard deviation
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(values)))

	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: stdDev,
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

// Fairness rates how evenly work was spread across workers, from 0 (one worker did
// everything) to 1 (all workers did the same amount). Workers compete for one dispatch
// lock, so this shows how unfair the lock was during a run.
func (s Stats) Fairness() float64 {
	var cv float64
	if s.Mean > 0 {
		cv = s.StdDeviation / s.Mean
	}
	// lower CV and higher min/max ratio indicate a fairer distribution
	return (1.0-math.Min(1.0, cv))*0.5 + s.MinMaxRatio*0.5
}
