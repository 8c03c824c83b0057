package weighing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a settable Clock for tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func TestTicketGenerator_MonotonicWithinDay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	g := NewTicketGenerator(clock)

	assert.Equal(t, "WB-20260314-0001", g.Generate())
	assert.Equal(t, "WB-20260314-0002", g.Generate())
	assert.Equal(t, "WB-20260314-0003", g.Generate())
}

func TestTicketGenerator_DateChangeResetsCounter(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	g := NewTicketGenerator(clock)

	assert.Equal(t, "WB-20260314-0001", g.Generate())
	assert.Equal(t, "WB-20260314-0002", g.Generate())

	clock.Set(time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, "WB-20260315-0001", g.Generate())
}

func TestTicketGenerator_ZeroPadding(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	g := NewTicketGenerator(clock)

	var last string
	for i := 0; i < 1000; i++ {
		last = g.Generate()
	}
	assert.Equal(t, "WB-20260314-1000", last)
}

func TestTicketGenerator_SeedResumesNumbering(t *testing.T) {
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	clock := newFakeClock(day)
	g := NewTicketGenerator(clock)

	// A same-day restart resumes after the highest persisted ticket.
	g.Seed(day, 41)
	assert.Equal(t, "WB-20260314-0042", g.Generate())

	// Seeding backwards never rewinds the counter.
	g.Seed(day, 10)
	assert.Equal(t, "WB-20260314-0043", g.Generate())
}

func TestTicketGenerator_ResetCounter(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	g := NewTicketGenerator(clock)

	g.Generate()
	g.Generate()
	g.ResetCounter()
	assert.Equal(t, "WB-20260314-0001", g.Generate())
}

func TestTicketGenerator_ConcurrentGenerate(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	g := NewTicketGenerator(clock)

	const n = 200
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- g.Generate()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for ticket := range results {
		assert.False(t, seen[ticket], "duplicate ticket %s", ticket)
		seen[ticket] = true
	}
	assert.Len(t, seen, n)
}
