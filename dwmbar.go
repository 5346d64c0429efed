// Package dwmbar wires independent monitor loops, a debounced trigger
// watcher and the bar aggregator into one status-line daemon.
package dwmbar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/skyhb/dwmbar/internal/bar"
	"github.com/skyhb/dwmbar/internal/config"
	"github.com/skyhb/dwmbar/internal/logger"
	"github.com/skyhb/dwmbar/internal/metrics"
	"github.com/skyhb/dwmbar/internal/monitor"
	"github.com/skyhb/dwmbar/internal/server"
	"github.com/skyhb/dwmbar/internal/trigger"
)

// Re-export the config types for external consumers.

type Config = config.Config

type MonitorConfig = config.MonitorConfig

func DefaultConfig() Config { return config.Default() }

func LoadConfig(path string) (Config, error) { return config.Load(path) }

// Option adjusts an App at construction, mainly for embedding and tests.
type Option func(*App)

// WithSink replaces the default xsetroot sink.
func WithSink(s bar.Sink) Option {
	return func(a *App) { a.sink = s }
}

// WithDescriptors replaces the built-in monitor table entirely.
func WithDescriptors(ds []monitor.Descriptor) Option {
	return func(a *App) { a.descriptors = ds }
}

// App owns one configured daemon instance.
type App struct {
	cfg         config.Config
	sink        bar.Sink
	descriptors []monitor.Descriptor
	probe       *monitor.Probe
	bus         *trigger.Bus
	agg         *bar.Aggregator
	watcher     *trigger.Watcher
	logCloser   io.Closer
}

// New validates cfg, installs logging and metrics, and assembles the monitor
// table (built-ins gated by host capabilities, adjusted by config overrides).
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a := &App{
		cfg:       cfg,
		sink:      bar.XRootSink{},
		probe:     monitor.NewProbe(),
		bus:       trigger.NewBus(16),
		logCloser: closer,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.descriptors == nil {
		a.descriptors = monitor.Builtin(a.probe, monitor.BuiltinOptions{
			DiskMount: cfg.DiskMount,
			NetScript: cfg.NetScript,
		})
	}
	a.descriptors = applyOverrides(a.descriptors, cfg)
	a.agg = bar.NewAggregator(cfg.Order, a.sink, bar.DefaultQueueSize)
	a.watcher = trigger.NewWatcher(cfg.TriggerDir, cfg.Order, a.bus)
	return a, nil
}

// applyOverrides drops disabled monitors and those absent from the display
// order (they could never render), and applies interval overrides.
func applyOverrides(ds []monitor.Descriptor, cfg config.Config) []monitor.Descriptor {
	ordered := make(map[string]struct{}, len(cfg.Order))
	for _, id := range cfg.Order {
		ordered[id] = struct{}{}
	}
	out := ds[:0]
	for _, d := range ds {
		if _, ok := ordered[d.ID]; !ok {
			slog.Debug("skipping monitor absent from order", "monitor", d.ID)
			continue
		}
		if ov, ok := cfg.Override(d.ID); ok {
			if ov.Disabled {
				slog.Debug("monitor disabled by config", "monitor", d.ID)
				continue
			}
			if ov.Interval > 0 {
				d.Interval = ov.Interval
			}
		}
		out = append(out, d)
	}
	return out
}

// Monitors returns the ids of the monitors that will run.
func (a *App) Monitors() []string {
	ids := make([]string, 0, len(a.descriptors))
	for _, d := range a.descriptors {
		ids = append(ids, d.ID)
	}
	return ids
}

// Run starts everything and blocks until ctx is cancelled. Cancelling the
// context is the shutdown signal every loop observes.
func (a *App) Run(ctx context.Context) error {
	if a.logCloser != nil {
		defer func() { _ = a.logCloser.Close() }()
	}
	if err := a.watcher.EnsureDir(); err != nil {
		return err
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.agg.Run(ctx)
	}()

	// Subscriptions must exist before the watcher may publish.
	for _, d := range a.descriptors {
		loop := monitor.NewLoop(d, a.agg.Updates(), a.bus.Subscribe(), a.cfg.Profile)
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.watcher.Run(ctx); err != nil {
			// Degrade: the bar keeps running without manual triggers.
			slog.Error("manual triggers unavailable", "error", err)
		}
	}()

	var httpSrv *http.Server
	if a.cfg.HTTP.Enabled {
		httpSrv = server.NewServer(a.cfg.HTTP.Listen, server.NewRouter(a.agg, a.bus, a.cfg.Order))
		slog.Info("http api listening", "addr", a.cfg.HTTP.Listen)
	}

	slog.Info("dwmbar started",
		"monitors", len(a.descriptors),
		"trigger_dir", a.cfg.TriggerDir,
		"profile", a.cfg.Profile)

	<-ctx.Done()
	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = httpSrv.Shutdown(shutdownCtx)
		cancel()
	}
	wg.Wait()
	slog.Info("dwmbar stopped")
	return nil
}
