package gousset

import (
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is a thread-safe, append-only sequence of elapsed times in seconds
// recorded for one Identity. It is never truncated.
type Series struct {
	mu      sync.Mutex
	samples []float64
}

// Record appends a measurement.
func (s *Series) Record(v float64) {
	s.mu.Lock()
	s.samples = append(s.samples, v)
	s.mu.Unlock()
}

// Len returns the number of recorded samples.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Samples returns a copy of the recorded samples in recording order.
func (s *Series) Samples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.samples)
}

// Snapshot returns statistics over the samples recorded so far.
func (s *Series) Snapshot() Stats {
	return Compute(s.Samples())
}

// Stats is an immutable summary of a Series.
type Stats struct {
	Count  int
	Sum    float64
	Mean   float64
	StdDev float64 // sample standard deviation; 0 for a single sample
	Min    float64
	Max    float64
	Median float64
}

// Compute summarizes samples. The zero Stats is returned for an empty slice.
func Compute(samples []float64) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}

	mean, std := stat.MeanStdDev(samples, nil)
	if n == 1 {
		std = 0
	}

	sorted := sortedCopy(samples)
	return Stats{
		Count:  n,
		Sum:    floats.Sum(samples),
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

func sortedCopy(samples []float64) []float64 {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return sorted
}
