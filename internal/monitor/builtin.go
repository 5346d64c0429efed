package monitor

import (
	"os"
	"time"
)

// Capability paths checked when assembling the built-in set.
const (
	vpnIfacePath = "/sys/class/net/tun0"
	cpuTempPath  = "/sys/class/thermal/thermal_zone0/temp"
	gpuTempPath  = "/sys/class/thermal/thermal_zone1/temp"
)

// BuiltinOptions tunes the built-in monitor table.
type BuiltinOptions struct {
	DiskMount string // mount point for the disk monitor, default "/"
	NetScript string // external network status script; empty disables "net"
}

// Builtin assembles the descriptor table for every monitor whose capability
// exists on this host. Registration is data: the caller filters and adjusts
// entries through config before starting loops.
func Builtin(probe *Probe, opts BuiltinOptions) []Descriptor {
	mount := opts.DiskMount
	if mount == "" {
		mount = "/"
	}

	ds := []Descriptor{
		{ID: "datetime", Interval: time.Second, Producer: Datetime()},
		{ID: "disk", Interval: 30 * time.Second, Producer: Disk(probe, mount)},
		{ID: "ram", Interval: 5 * time.Second, Producer: RAM(probe)},
		{ID: "cpu_load", Interval: 2 * time.Second, Producer: CPULoad(probe)},
		{ID: "vpn", Interval: 10 * time.Second, Producer: VPN(vpnIfacePath)},
	}

	if fileExists(cpuTempPath) {
		ds = append(ds, Descriptor{ID: "cpu_temp", Interval: 10 * time.Second, Producer: Thermal("cpu", cpuTempPath)})
	}
	if fileExists(gpuTempPath) {
		ds = append(ds, Descriptor{ID: "gpu_temp", Interval: 30 * time.Second, Producer: Thermal("gpu", gpuTempPath)})
	}
	if opts.NetScript != "" && fileExists(opts.NetScript) {
		ds = append(ds, Descriptor{ID: "net", Interval: 10 * time.Second, Producer: Script(opts.NetScript)})
	}
	if commandExists("acpi") {
		ds = append(ds, Descriptor{ID: "battery", Interval: 30 * time.Second, Producer: Battery()})
	}
	if commandExists("amixer") {
		ds = append(ds, Descriptor{ID: "volume", Interval: 10 * time.Second, Producer: Volume()})
	}
	if commandExists("bluetoothctl") {
		ds = append(ds, Descriptor{ID: "bluetooth", Interval: 60 * time.Second, Producer: Bluetooth()})
	}
	if commandExists("dunst") {
		ds = append(ds, Descriptor{ID: "notification", Interval: 10 * time.Minute, Producer: Notification()})
	}
	return ds
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
