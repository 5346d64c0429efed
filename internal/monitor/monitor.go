// Package monitor owns the per-monitor scheduling loop and the built-in
// producers feeding the status bar.
package monitor

import (
	"context"
	"time"
)

// Producer is one bar fragment source: a run-to-completion probe returning
// the text to display or an error. An empty string is a valid result and
// means "hide this monitor from the bar".
type Producer interface {
	Probe(ctx context.Context) (string, error)
}

// ProducerFunc adapts a plain function to Producer.
type ProducerFunc func(ctx context.Context) (string, error)

func (f ProducerFunc) Probe(ctx context.Context) (string, error) { return f(ctx) }

// Descriptor registers one monitor: its id (also the trigger filename and
// render-order key), refresh interval, and producer. Descriptors are built
// once at startup and never mutated.
type Descriptor struct {
	ID       string
	Interval time.Duration
	Producer Producer
}

// Update is the message a loop sends to the aggregator after a successful
// probe. Consumed exactly once.
type Update struct {
	ID    string
	Value string
}
