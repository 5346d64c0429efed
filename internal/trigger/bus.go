// Package trigger turns external "refresh monitor X now" signals into bus
// events consumed by the monitor loops.
package trigger

import (
	"sync"

	"github.com/skyhb/dwmbar/internal/metrics"
)

// Bus fans monitor ids out to every subscriber. Delivery is lossy: a
// subscriber that does not drain its channel misses events instead of
// blocking the publisher. Triggers are a convenience wake-up, not a queue
// of required work.
type Bus struct {
	mu   sync.RWMutex
	subs []chan string
	buf  int
}

// NewBus creates a bus whose per-subscriber channels buffer buf events.
func NewBus(buf int) *Bus {
	if buf <= 0 {
		buf = 16
	}
	return &Bus{buf: buf}
}

// Subscribe registers a new independent receiver. All subscriptions must be
// created before publishing starts; there is no unsubscribe, subscriptions
// live for the process lifetime.
func (b *Bus) Subscribe() <-chan string {
	ch := make(chan string, b.buf)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers id to every subscriber that has room and reports how many
// received it. Full subscribers are skipped.
func (b *Bus) Publish(id string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- id:
			delivered++
		default:
			metrics.IncTriggerDropped()
		}
	}
	metrics.IncTriggerPublished(id)
	return delivered
}
