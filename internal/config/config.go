package config

import (
	"fmt"
	"time"

	"github.com/skyhb/dwmbar/internal/logger"
	"github.com/spf13/viper"
)

// DefaultTriggerDir is the well-known directory watched for manual triggers.
// Creating an empty file named after a monitor id inside it requests an
// immediate refresh of that monitor.
const DefaultTriggerDir = "/tmp/dwm-bar-triggers"

// DefaultOrder is the fixed display order of the built-in monitors. Config
// may override it at startup; it never changes at runtime.
var DefaultOrder = []string{
	"vpn", "notification", "cpu_load", "ram", "disk", "cpu_temp",
	"gpu_temp", "battery", "volume", "bluetooth", "net", "datetime",
}

// Config is the top-level TOML structure.
type Config struct {
	TriggerDir string          `mapstructure:"trigger_dir"`
	Order      []string        `mapstructure:"order"`
	Profile    bool            `mapstructure:"profile"`
	NetScript  string          `mapstructure:"net_script"`
	DiskMount  string          `mapstructure:"disk_mount"`
	Log        logger.Config   `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	Monitors   []MonitorConfig `mapstructure:"monitors"`
}

// HTTPConfig enables the local control/status API.
type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// MonitorConfig overrides one built-in monitor: refresh interval and
// whether it runs at all.
type MonitorConfig struct {
	Name     string        `mapstructure:"name"`
	Interval time.Duration `mapstructure:"interval"`
	Disabled bool          `mapstructure:"disabled"`
}

// Default returns the configuration matching the built-in constants.
func Default() Config {
	return Config{
		TriggerDir: DefaultTriggerDir,
		Order:      append([]string(nil), DefaultOrder...),
		DiskMount:  "/",
		Log:        logger.Config{Level: "info", Color: true},
		HTTP:       HTTPConfig{Listen: "127.0.0.1:9753"},
	}
}

// Load reads a TOML file and merges it over the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the invariants the rest of the daemon assumes.
func (c *Config) Validate() error {
	if c.TriggerDir == "" {
		return fmt.Errorf("trigger_dir must not be empty")
	}
	if len(c.Order) == 0 {
		return fmt.Errorf("order must list at least one monitor id")
	}
	seen := make(map[string]struct{}, len(c.Order))
	for _, id := range c.Order {
		if id == "" {
			return fmt.Errorf("order contains an empty monitor id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("order lists monitor %q twice", id)
		}
		seen[id] = struct{}{}
	}
	for _, m := range c.Monitors {
		if m.Name == "" {
			return fmt.Errorf("monitor override without a name")
		}
		if m.Interval < 0 {
			return fmt.Errorf("monitor %q: negative interval", m.Name)
		}
	}
	return nil
}

// Override returns the override entry for a monitor name, if present.
func (c *Config) Override(name string) (MonitorConfig, bool) {
	for _, m := range c.Monitors {
		if m.Name == name {
			return m, true
		}
	}
	return MonitorConfig{}, false
}
