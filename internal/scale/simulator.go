package scale

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Simulator produces a plausible weighing cycle without hardware: ramp up to
// a target weight, hold steady with indicator-level noise, ramp back down,
// pause, repeat. Useful for development and demos.
type Simulator struct {
	sink     Sink
	logger   *slog.Logger
	interval time.Duration
	rng      *rand.Rand
}

// NewSimulator creates a simulated scale source emitting one sample per
// interval.
func NewSimulator(sink Sink, interval time.Duration, logger *slog.Logger) *Simulator {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Simulator{
		sink:     sink,
		logger:   logger,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run emits samples until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.Info("scale simulator started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	const (
		rampSteps = 15
		holdSteps = 40
		idleSteps = 25
	)

	target := 8000 + s.rng.Float64()*24000
	step := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var weight float64
		switch {
		case step < rampSteps:
			// Truck driving onto the deck: big swings.
			progress := float64(step+1) / float64(rampSteps)
			weight = target*progress + s.rng.Float64()*400 - 200
		case step < rampSteps+holdSteps:
			// Settled: noise within half a display division.
			weight = target + s.rng.Float64()*1 - 0.5
		case step < 2*rampSteps+holdSteps:
			// Truck driving off.
			progress := 1 - float64(step-rampSteps-holdSteps+1)/float64(rampSteps)
			weight = target*progress + s.rng.Float64()*400 - 200
		default:
			// Empty deck.
			weight = s.rng.Float64() * 2
		}
		if weight < 0 {
			weight = 0
		}

		if err := s.sink.UpdateWeight(weight); err != nil {
			s.logger.Debug("simulated sample rejected", "weight_kg", weight, "error", err)
		}

		step++
		if step >= 2*rampSteps+holdSteps+idleSteps {
			step = 0
			target = 8000 + s.rng.Float64()*24000
		}
	}
}
