package weighing

import "math"

// StabilityDetector decides whether a run of weight samples represents a
// settled scale. It keeps a bounded sliding window of recent samples and
// reports stability when every sample sits within the tolerance band around
// the window mean.
//
// The detector is not safe for concurrent use; it is owned by a single engine
// instance which serializes access.
type StabilityDetector struct {
	windowSize  int
	toleranceKg float64
	samples     []float64
}

// NewStabilityDetector creates a detector with the given window size and
// tolerance. Window size below 1 is clamped to 1; a window of 1 makes every
// single reading trivially stable, which is accepted behavior.
func NewStabilityDetector(windowSize int, toleranceKg float64) *StabilityDetector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &StabilityDetector{
		windowSize:  windowSize,
		toleranceKg: toleranceKg,
		samples:     make([]float64, 0, windowSize),
	}
}

// AddReading appends a sample, evicting the oldest once the window is full,
// and returns the resulting stability verdict.
func (d *StabilityDetector) AddReading(weight float64) bool {
	d.samples = append(d.samples, weight)
	if len(d.samples) > d.windowSize {
		d.samples = d.samples[1:]
	}
	return d.IsStable()
}

// IsStable returns false until the window is full, then true iff every
// sample's absolute deviation from the window mean is within tolerance.
func (d *StabilityDetector) IsStable() bool {
	if len(d.samples) < d.windowSize {
		return false
	}
	mean := d.mean()
	for _, s := range d.samples {
		if math.Abs(s-mean) > d.toleranceKg {
			return false
		}
	}
	return true
}

// StableWeight returns the window mean when the detector is stable.
func (d *StabilityDetector) StableWeight() (float64, bool) {
	if !d.IsStable() {
		return 0, false
	}
	return d.mean(), true
}

// Reset clears the buffer. Called at the start of every weighing session so
// stale samples from a prior vehicle never contaminate a new decision.
func (d *StabilityDetector) Reset() {
	d.samples = d.samples[:0]
}

// Count returns the number of buffered samples.
func (d *StabilityDetector) Count() int {
	return len(d.samples)
}

func (d *StabilityDetector) mean() float64 {
	sum := 0.0
	for _, s := range d.samples {
		sum += s
	}
	return sum / float64(len(d.samples))
}
