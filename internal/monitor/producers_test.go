package monitor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestDatetimeFormat(t *testing.T) {
	out, err := Datetime().Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	// e.g. "Mon 02 Jan 15:04:05"
	re := regexp.MustCompile(`^[A-Z][a-z]{2} \d{2} [A-Z][a-z]{2} \d{2}:\d{2}:\d{2}$`)
	if !re.MatchString(out) {
		t.Fatalf("unexpected datetime %q", out)
	}
}

func TestVPNHiddenWhenInterfaceAbsent(t *testing.T) {
	out, err := VPN(filepath.Join(t.TempDir(), "tun0")).Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected hidden fragment, got %q", out)
	}
}

func TestVPNShownWhenInterfacePresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tun0")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := VPN(path).Probe(context.Background())
	if err != nil || out != "VPN" {
		t.Fatalf("got %q err=%v", out, err)
	}
}

func TestThermalReadsMillidegrees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	if err := os.WriteFile(path, []byte("54500\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Thermal("cpu", path).Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if out != "cpu: 55°C" {
		t.Fatalf("got %q", out)
	}
}

func TestThermalErrors(t *testing.T) {
	if _, err := Thermal("cpu", filepath.Join(t.TempDir(), "absent")).Probe(context.Background()); err == nil {
		t.Fatalf("expected error for missing zone")
	}
	path := filepath.Join(t.TempDir(), "temp")
	if err := os.WriteFile(path, []byte("warm"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Thermal("cpu", path).Probe(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestProbeMemoryAndDisk(t *testing.T) {
	p := NewProbe()
	ctx := context.Background()

	pct, err := p.MemoryPercent(ctx)
	if err != nil {
		t.Fatalf("MemoryPercent: %v", err)
	}
	if pct < 0 || pct > 100 {
		t.Fatalf("memory percent out of range: %v", pct)
	}

	pct, err = p.DiskPercent(ctx, "/")
	if err != nil {
		t.Fatalf("DiskPercent: %v", err)
	}
	if pct < 0 || pct > 100 {
		t.Fatalf("disk percent out of range: %v", pct)
	}
}

func TestProbeCPUPercent(t *testing.T) {
	p := NewProbe()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pct, err := p.CPUPercent(ctx)
	if err != nil {
		t.Fatalf("CPUPercent: %v", err)
	}
	if pct < 0 || pct > 100 {
		t.Fatalf("cpu percent out of range: %v", pct)
	}
	// Second call uses the retained sample, no priming delay.
	start := time.Now()
	if _, err := p.CPUPercent(ctx); err != nil {
		t.Fatalf("second CPUPercent: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("second sample took too long")
	}
}

func TestRAMProducerFormat(t *testing.T) {
	out, err := RAM(NewProbe()).Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if !strings.HasPrefix(out, "ram: ") || !strings.HasSuffix(out, "%") {
		t.Fatalf("unexpected fragment %q", out)
	}
}

func TestBuiltinCoreSet(t *testing.T) {
	ds := Builtin(NewProbe(), BuiltinOptions{})
	ids := map[string]Descriptor{}
	for _, d := range ds {
		if _, dup := ids[d.ID]; dup {
			t.Fatalf("duplicate descriptor %q", d.ID)
		}
		ids[d.ID] = d
	}
	for _, core := range []string{"datetime", "disk", "ram", "cpu_load", "vpn"} {
		d, ok := ids[core]
		if !ok {
			t.Fatalf("core monitor %q missing", core)
		}
		if d.Interval <= 0 || d.Producer == nil {
			t.Fatalf("descriptor %q incomplete: %+v", core, d)
		}
	}
	// net only appears when a script path is configured and exists.
	if _, ok := ids["net"]; ok {
		t.Fatalf("net registered without a script")
	}
}

func TestBuiltinNetGatedOnScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "net-status.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho up\n"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds := Builtin(NewProbe(), BuiltinOptions{NetScript: script})
	found := false
	for _, d := range ds {
		if d.ID == "net" {
			found = true
		}
	}
	if !found {
		t.Fatalf("net not registered despite existing script")
	}
}
