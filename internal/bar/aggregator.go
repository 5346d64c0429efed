package bar

import (
	"context"
	"log/slog"
	"sync"

	"github.com/skyhb/dwmbar/internal/metrics"
	"github.com/skyhb/dwmbar/internal/monitor"
)

// DefaultQueueSize bounds the shared update channel. A slow sink therefore
// backpressures the monitor loops instead of dropping their results.
const DefaultQueueSize = 32

// Aggregator is the single consumer of all monitor updates. It owns the
// results map: monitor loops only ever reach it through Updates().
// Each received update rewrites the map, re-renders the bar and pushes it
// to the sink before the next update is taken.
type Aggregator struct {
	order   []string
	updates chan monitor.Update
	sink    Sink

	mu      sync.RWMutex
	results map[string]string
	current string
}

func NewAggregator(order []string, sink Sink, queueSize int) *Aggregator {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Aggregator{
		order:   append([]string(nil), order...),
		updates: make(chan monitor.Update, queueSize),
		sink:    sink,
		results: make(map[string]string),
	}
}

// Updates is the send side handed to every monitor loop.
func (a *Aggregator) Updates() chan<- monitor.Update { return a.updates }

// Run consumes updates in arrival order until ctx is cancelled.
func (a *Aggregator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-a.updates:
			a.apply(ctx, u)
		}
	}
}

// apply records the latest value (empty included, so the hide rule kicks in
// at render time), re-renders and writes to the sink. Sink failures are
// logged with the attempted string and otherwise ignored.
func (a *Aggregator) apply(ctx context.Context, u monitor.Update) {
	a.mu.Lock()
	a.results[u.ID] = u.Value
	rendered := Render(a.order, a.results)
	a.current = rendered
	a.mu.Unlock()

	metrics.IncRender()
	if err := a.sink.Apply(ctx, rendered); err != nil {
		metrics.IncSinkFailure()
		slog.Error("display sink write failed", "bar", rendered, "error", err)
	}
}

// Current returns the most recently rendered bar string.
func (a *Aggregator) Current() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Snapshot copies the results map for the status API.
func (a *Aggregator) Snapshot() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]string, len(a.results))
	for k, v := range a.results {
		out[k] = v
	}
	return out
}
