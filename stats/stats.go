// Package stats implements running statistics used to track model
// performance across decisions and search iterations.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates a running mean and variance with Welford's
// algorithm, so callers never retain individual observations.
type Statistic struct {
	totalIterations int
	last            float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
	}
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// StandardError returns the standard error of the statistic.
func (s *Statistic) StandardError() float64 {
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// ErrorMargin returns the half-width of the confidence interval around
// the mean. The interval is a percentage, e.g. 95.
func (s *Statistic) ErrorMargin(confidenceInterval float64) float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return ZVal(confidenceInterval) * s.StandardError()
}

// Merge folds other into s. Used to combine per-worker shards after a
// parallel search; the merged moments follow Chan et al.'s pairwise
// update.
func (s *Statistic) Merge(other *Statistic) {
	if other.totalIterations == 0 {
		return
	}
	if s.totalIterations == 0 {
		*s = *other
		return
	}
	na := float64(s.totalIterations)
	nb := float64(other.totalIterations)
	delta := other.newM - s.newM
	n := na + nb

	mean := s.newM + delta*nb/n
	m2 := s.newS + other.newS + delta*delta*na*nb/n

	s.totalIterations = int(n)
	s.last = other.last
	s.newM = mean
	s.oldM = mean
	s.newS = m2
	s.oldS = m2
}
