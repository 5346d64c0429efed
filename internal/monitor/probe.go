package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Probe is the shared system-metrics handle used by the ram, disk and cpu
// monitors. The mutex covers each refresh-and-read; it is never held across
// sleeps, so one monitor's probe cannot starve another's.
type Probe struct {
	mu      sync.Mutex
	lastCPU cpu.TimesStat
	primed  bool
}

func NewProbe() *Probe { return &Probe{} }

// MemoryPercent reports used physical memory as a percentage.
func (p *Probe) MemoryPercent(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("read memory: %w", err)
	}
	return vm.UsedPercent, nil
}

// DiskPercent reports used space on the given mount as a percentage.
func (p *Probe) DiskPercent(ctx context.Context, mount string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	usage, err := disk.UsageWithContext(ctx, mount)
	if err != nil {
		return 0, fmt.Errorf("read disk %s: %w", mount, err)
	}
	return usage.UsedPercent, nil
}

// CPUPercent reports aggregate CPU busy time as a percentage of the time
// elapsed since the previous sample. The first call primes the sample and
// waits a short interval outside the lock before measuring.
func (p *Probe) CPUPercent(ctx context.Context) (float64, error) {
	p.mu.Lock()
	primed := p.primed
	p.mu.Unlock()
	if !primed {
		if err := p.sampleCPU(ctx); err != nil {
			return 0, err
		}
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	cur, err := cpuTimes(ctx)
	if err != nil {
		return 0, err
	}
	prev := p.lastCPU
	p.lastCPU = cur
	total := totalTime(cur) - totalTime(prev)
	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	if total <= 0 {
		return 0, nil
	}
	busy := total - idle
	if busy < 0 {
		busy = 0
	}
	return busy / total * 100, nil
}

func (p *Probe) sampleCPU(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, err := cpuTimes(ctx)
	if err != nil {
		return err
	}
	p.lastCPU = cur
	p.primed = true
	return nil
}

func cpuTimes(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, fmt.Errorf("no aggregate cpu sample")
	}
	return times[0], nil
}

func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq +
		t.Softirq + t.Steal + t.Guest + t.GuestNice
}
