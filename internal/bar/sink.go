package bar

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Sink applies a rendered bar string to the display surface. Implementations
// are best-effort; the aggregator logs failures and keeps going.
type Sink interface {
	Apply(ctx context.Context, bar string) error
}

// XRootSink writes the bar into the X root window name via xsetroot, which
// dwm displays as its status line.
type XRootSink struct{}

func (XRootSink) Apply(ctx context.Context, bar string) error {
	cmd := exec.CommandContext(ctx, "xsetroot", "-name", bar)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("xsetroot: %w: %s", err, msg)
		}
		return fmt.Errorf("xsetroot: %w", err)
	}
	return nil
}
