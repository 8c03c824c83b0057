package weighing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStabilityDetector_WindowFill(t *testing.T) {
	d := NewStabilityDetector(5, 2.0)

	// The first windowSize-1 readings can never be stable.
	for i := 0; i < 4; i++ {
		stable := d.AddReading(1000.0)
		assert.False(t, stable, "reading %d should not be stable", i+1)
	}

	// The window becomes evaluable at the n-th reading.
	assert.True(t, d.AddReading(1000.0))
}

func TestStabilityDetector_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		name       string
		windowSize int
		tolerance  float64
		readings   []float64
		want       bool
	}{
		{
			name:       "all readings within tolerance of mean",
			windowSize: 3,
			tolerance:  2.0,
			readings:   []float64{998, 1000, 1002}, // mean 1000, max deviation 2
			want:       true,
		},
		{
			name:       "deviation exactly at tolerance is stable",
			windowSize: 3,
			tolerance:  2.0,
			readings:   []float64{1000, 1000, 1003}, // mean 1001, max deviation 2
			want:       true,
		},
		{
			name:       "one reading just outside tolerance",
			windowSize: 3,
			tolerance:  2.0,
			readings:   []float64{1000, 1000, 1004}, // mean 1001.33, deviation 2.67
			want:       false,
		},
		{
			name:       "zero tolerance requires identical readings",
			windowSize: 3,
			tolerance:  0,
			readings:   []float64{500, 500, 500},
			want:       true,
		},
		{
			name:       "zero tolerance rejects any jitter",
			windowSize: 3,
			tolerance:  0,
			readings:   []float64{500, 500, 500.1},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewStabilityDetector(tt.windowSize, tt.tolerance)
			var stable bool
			for _, r := range tt.readings {
				stable = d.AddReading(r)
			}
			assert.Equal(t, tt.want, stable)
		})
	}
}

func TestStabilityDetector_WindowOfOne(t *testing.T) {
	// A window of size 1 makes every single reading trivially stable.
	// Accepted behavior, not a bug.
	d := NewStabilityDetector(1, 2.0)
	assert.True(t, d.AddReading(123.4))
	assert.True(t, d.AddReading(9999))

	w, ok := d.StableWeight()
	assert.True(t, ok)
	assert.Equal(t, 9999.0, w)
}

func TestStabilityDetector_SlidingEviction(t *testing.T) {
	d := NewStabilityDetector(3, 1.0)

	// A wild early reading must age out of the window.
	d.AddReading(5000)
	d.AddReading(1000)
	d.AddReading(1000)
	assert.False(t, d.IsStable())

	// Fourth reading evicts the outlier.
	assert.True(t, d.AddReading(1000))
	assert.Equal(t, 3, d.Count())
}

func TestStabilityDetector_StableWeight(t *testing.T) {
	d := NewStabilityDetector(3, 2.0)

	_, ok := d.StableWeight()
	assert.False(t, ok, "no stable weight before the window fills")

	d.AddReading(999)
	d.AddReading(1000)
	d.AddReading(1001)

	w, ok := d.StableWeight()
	assert.True(t, ok)
	assert.InDelta(t, 1000.0, w, 1e-9)
}

func TestStabilityDetector_Reset(t *testing.T) {
	d := NewStabilityDetector(2, 2.0)
	d.AddReading(100)
	d.AddReading(100)
	assert.True(t, d.IsStable())

	d.Reset()
	assert.False(t, d.IsStable())
	assert.Equal(t, 0, d.Count())

	// Stale samples never contaminate the next session's decision.
	assert.False(t, d.AddReading(100))
	assert.True(t, d.AddReading(100))
}
