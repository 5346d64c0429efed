package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/skyhb/dwmbar/internal/metrics"
)

// Loop drives one monitor for the daemon's lifetime: an initial capability
// probe, then a steady-state cycle woken by the interval ticker or a matching
// trigger event. Runs never overlap; the next wake-up is only awaited after
// the previous probe and publish completed.
type Loop struct {
	desc     Descriptor
	updates  chan<- Update
	triggers <-chan string
	profile  bool
}

func NewLoop(desc Descriptor, updates chan<- Update, triggers <-chan string, profile bool) *Loop {
	return &Loop{desc: desc, updates: updates, triggers: triggers, profile: profile}
}

// Run executes the loop until ctx is cancelled. A failed initial probe
// disables the monitor permanently: the environment lacks this capability,
// as opposed to a transient hiccup. Later failures are logged and the last
// published value stays on the bar.
func (l *Loop) Run(ctx context.Context) {
	value, err := l.probe(ctx)
	if err != nil {
		slog.Warn("disabling monitor, initial run failed",
			"monitor", l.desc.ID, "error", err)
		metrics.SetDisabled(l.desc.ID)
		return
	}
	if !l.send(ctx, value) {
		return
	}

	ticker := time.NewTicker(l.desc.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case id := <-l.triggers:
			if id != l.desc.ID {
				continue
			}
			slog.Info("manual trigger", "monitor", id)
		}
		value, err := l.probe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("monitor run failed", "monitor", l.desc.ID, "error", err)
			continue
		}
		if !l.send(ctx, value) {
			return
		}
	}
}

func (l *Loop) probe(ctx context.Context) (string, error) {
	start := time.Now()
	value, err := l.desc.Producer.Probe(ctx)
	elapsed := time.Since(start)
	metrics.ObserveRunDuration(l.desc.ID, elapsed.Seconds())
	if l.profile {
		slog.Info("monitor run finished", "monitor", l.desc.ID, "duration", elapsed)
	}
	if err != nil {
		metrics.IncFailure(l.desc.ID)
		return "", err
	}
	metrics.IncRun(l.desc.ID)
	return value, nil
}

// send publishes the update, blocking while the aggregator queue is full.
// It reports false when the daemon is shutting down.
func (l *Loop) send(ctx context.Context, value string) bool {
	select {
	case l.updates <- Update{ID: l.desc.ID, Value: value}:
		return true
	case <-ctx.Done():
		return false
	}
}
