package harness

import (
	"math"
	"time"
)

// Stats accumulates trial durations, in milliseconds, per key.
type Stats struct {
	trials map[string][]float64
}

func NewStats() *Stats {
	return &Stats{
		trials: make(map[string][]float64),
	}
}

func (s *Stats) Add(key string, d time.Duration) {
	s.trials[key] = append(s.trials[key], float64(d)/float64(time.Millisecond))
}

// Trials returns a copy of the recorded values for key.
func (s *Stats) Trials(key string) []float64 {
	return append([]float64(nil), s.trials[key]...)
}

// Calculate returns the mean, the sample standard deviation and the number
// of trials recorded for key.
func (s *Stats) Calculate(key string) (float64, float64, int) {
	trials := s.trials[key]
	if len(trials) == 0 {
		return 0, 0, 0
	}
	sum := 0.0
	for _, v := range trials {
		sum += v
	}
	mean := sum / float64(len(trials))
	if len(trials) == 1 {
		return mean, 0, 1
	}
	sumSquaredDiff := 0.0
	for _, v := range trials {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return mean, math.Sqrt(sumSquaredDiff / float64(len(trials)-1)), len(trials)
}

// CV returns the coefficient of variation for key, or NaN without trials.
func (s *Stats) CV(key string) float64 {
	mean, stddev, n := s.Calculate(key)
	if n == 0 {
		return math.NaN()
	}
	if mean == 0 {
		return 0
	}
	return stddev / mean
}

// IsCVSufficient reports whether key has more than two trials and a
// coefficient of variation below cv.
func (s *Stats) IsCVSufficient(key string, cv float64) bool {
	_, _, count := s.Calculate(key)
	if count <= 2 {
		return false
	}
	return s.CV(key) < cv
}

// MaxRelative returns the largest coefficient of variation across keys.
func (s *Stats) MaxRelative() float64 {
	relative := math.NaN()
	for key := range s.trials {
		r := s.CV(key)
		if math.IsNaN(relative) || r > relative {
			relative = r
		}
	}
	return relative
}
