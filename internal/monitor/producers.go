package monitor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Datetime renders the local wall clock, matching the bar's traditional
// "Mon 02 Jan 15:04:05" layout.
func Datetime() Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		return time.Now().Format("Mon 02 Jan 15:04:05"), nil
	})
}

// RAM reports used memory percent via the shared probe.
func RAM(p *Probe) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		pct, err := p.MemoryPercent(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ram: %.0f%%", pct), nil
	})
}

// Disk reports used space percent for one mount via the shared probe.
func Disk(p *Probe, mount string) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		pct, err := p.DiskPercent(ctx, mount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("disk: %.0f%%", pct), nil
	})
}

// CPULoad reports aggregate CPU usage percent via the shared probe.
func CPULoad(p *Probe) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		pct, err := p.CPUPercent(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("cpu: %.0f%%", pct), nil
	})
}

// VPN shows a fixed tag while the tunnel interface exists and hides
// otherwise. An absent interface is not an error.
func VPN(ifacePath string) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		if _, err := os.Stat(ifacePath); err == nil {
			return "VPN", nil
		}
		return "", nil
	})
}

// Thermal reads a sysfs thermal zone (millidegrees) and renders it with the
// given label, e.g. "cpu: 54°C".
func Thermal(label, path string) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", path, err)
		}
		return fmt.Sprintf("%s: %.0f°C", label, milli/1000), nil
	})
}

// Script runs an external status script and displays its trimmed output.
func Script(path string) Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		return runCommand(ctx, path)
	})
}
