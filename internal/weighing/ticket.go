package weighing

import (
	"fmt"
	"sync"
	"time"
)

// TicketPrefix is the fixed leading segment of every ticket number.
const TicketPrefix = "WB"

// TicketGenerator produces human-readable, date-scoped, monotonically
// increasing ticket numbers of the form WB-YYYYMMDD-NNNN. The counter resets
// to 0001 the first time a new calendar date is seen.
//
// The counter and last-seen date are guarded by a mutex so concurrent
// Generate calls can never duplicate or corrupt a ticket number.
type TicketGenerator struct {
	mu       sync.Mutex
	clock    Clock
	lastDate string // YYYYMMDD of the last generated ticket
	counter  int
}

// NewTicketGenerator creates a generator driven by the given clock.
func NewTicketGenerator(clock Clock) *TicketGenerator {
	return &TicketGenerator{clock: clock}
}

// Generate returns the next ticket number for the caller's wall-clock date,
// resetting the counter on a date change.
func (g *TicketGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.clock.Now().Format("20060102")
	if today != g.lastDate {
		g.lastDate = today
		g.counter = 0
	}
	g.counter++
	return fmt.Sprintf("%s-%s-%04d", TicketPrefix, today, g.counter)
}

// Seed advances the counter to at least sequence for the given date. Used at
// startup to resume numbering from the highest ticket already persisted for
// today, so a same-day restart does not collide. Ignored if the date is not
// the generator's current date and no tickets were generated yet on an
// earlier date.
func (g *TicketGenerator) Seed(date time.Time, sequence int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := date.Format("20060102")
	if g.lastDate != "" && g.lastDate != day {
		return
	}
	g.lastDate = day
	if sequence > g.counter {
		g.counter = sequence
	}
}

// ResetCounter clears the date and counter. Primarily a test-isolation hook.
func (g *TicketGenerator) ResetCounter() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastDate = ""
	g.counter = 0
}
