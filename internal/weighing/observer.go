package weighing

import (
	"sync"
	"time"

	"github.com/ironaxle/weighstation/internal/domain"
)

// Snapshot is the engine's externally observable state: the active state
// variant plus the live weight/stability/mode flags and the last surfaced
// messages. Readers receive consistent snapshots; they never mutate.
type Snapshot struct {
	State         domain.WeighingState
	CurrentWeight float64
	Stable        bool
	Manual        bool
	LastError     string
	LastMessage   string
	UpdatedAt     time.Time
}

// broadcaster fans snapshots out to subscriber channels. Publishes happen
// synchronously under the engine lock in command order; sends are
// non-blocking, so a subscriber that falls behind misses intermediate
// snapshots rather than stalling the engine.
type broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Snapshot
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Snapshot)}
}

// subscribe registers a buffered snapshot channel. The returned cancel
// function unregisters and closes it.
func (b *broadcaster) subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Snapshot, buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *broadcaster) publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
			// Subscriber buffer full; drop rather than block the engine.
		}
	}
}
