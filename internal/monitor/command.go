package monitor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// runCommand executes a probe command and returns its trimmed stdout.
// A non-zero exit is an error carrying the command's stderr.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("run %s: %w", name, err)
		}
		return "", fmt.Errorf("run %s: %w: %s", name, err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// commandExists reports whether a binary is resolvable in PATH. Used to gate
// conditional monitors at startup.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

var batteryRe = regexp.MustCompile(`Battery \d+: ([\w\s]+), (\d+)%`)

// parseBattery turns `acpi -b` output plus the charge stop threshold into
// the bar fragment, e.g. "bat: 73/80% C".
func parseBattery(acpiOut, threshold string) (string, error) {
	m := batteryRe.FindStringSubmatch(acpiOut)
	if m == nil {
		return "bat: N/A", nil
	}
	var state string
	switch strings.TrimSpace(m[1]) {
	case "Charging":
		state = "C"
	case "Discharging":
		state = "D"
	case "Full":
		state = "F"
	default:
		state = "?"
	}
	return fmt.Sprintf("bat: %s/%s%% %s", m[2], strings.TrimSpace(threshold), state), nil
}

// Battery probes `acpi -b` and the BAT0 charge stop threshold.
func Battery() Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		acpiOut, err := runCommand(ctx, "acpi", "-b")
		if err != nil {
			return "", err
		}
		raw, err := os.ReadFile("/sys/class/power_supply/BAT0/charge_stop_threshold")
		if err != nil {
			return "", fmt.Errorf("read charge threshold: %w", err)
		}
		return parseBattery(acpiOut, string(raw))
	})
}

var volumeRe = regexp.MustCompile(`Front Left:[^\[]*\[(\d+%)\]`)

// parseVolume extracts the Front Left channel percentage from
// `amixer sget Master` output.
func parseVolume(amixerOut string) (string, error) {
	m := volumeRe.FindStringSubmatch(amixerOut)
	if m == nil {
		return "", fmt.Errorf("no volume level in amixer output")
	}
	return fmt.Sprintf("vol: %s", m[1]), nil
}

// Volume probes the master mixer level through amixer.
func Volume() Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		out, err := runCommand(ctx, "amixer", "sget", "Master")
		if err != nil {
			return "", err
		}
		return parseVolume(out)
	})
}

var btBatteryRe = regexp.MustCompile(`Battery Percentage:.*\((\d+)\)`)

// parseBluetoothInfo extracts the device name and optional battery percent
// from `bluetoothctl info <mac>` output.
func parseBluetoothInfo(info string) (name, battery string) {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "Name: "); ok {
			name = strings.TrimSpace(v)
		} else if m := btBatteryRe.FindStringSubmatch(line); m != nil {
			battery = m[1]
		}
	}
	return name, battery
}

// Bluetooth shows the first connected device and, when reported, its battery
// level. No connected device hides the fragment.
func Bluetooth() Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		devices, err := runCommand(ctx, "bluetoothctl", "devices", "Connected")
		if err != nil {
			return "", err
		}
		fields := strings.Fields(devices)
		if len(fields) < 2 {
			return "", nil
		}
		mac := fields[1]
		info, err := runCommand(ctx, "bluetoothctl", "info", mac)
		if err != nil {
			return "", err
		}
		name, battery := parseBluetoothInfo(info)
		if name == "" {
			name = mac
		}
		if battery != "" {
			return fmt.Sprintf("bt: %s %s%%", name, battery), nil
		}
		return fmt.Sprintf("bt: %s", name), nil
	})
}

// Notification shows a tag while dunst notifications are paused and hides
// otherwise.
func Notification() Producer {
	return ProducerFunc(func(ctx context.Context) (string, error) {
		out, err := runCommand(ctx, "dunstctl", "is-paused")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "true" {
			return "n: disabled", nil
		}
		return "", nil
	})
}
