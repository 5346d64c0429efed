package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation parameters for the optional log file.
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// FileConfig configures an optional rotating log file.
// Rotation parameters follow lumberjack semantics.
type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Config describes daemon logging: level, colored stderr output, and an
// optional rotating file that receives the same records.
type Config struct {
	Level string     `mapstructure:"level"`
	Color bool       `mapstructure:"color"`
	File  FileConfig `mapstructure:"file"`
}

// ParseLevel maps a config string to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Setup installs the default slog logger according to cfg. The returned
// closer owns the rotating file writer, if any; callers close it at exit.
func Setup(cfg Config) (io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	if cfg.Color {
		console = NewColorTextHandler(os.Stderr, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	var closer io.Closer
	handler := console
	if cfg.File.Path != "" {
		fw := &lj.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    valOr(cfg.File.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(cfg.File.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(cfg.File.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   cfg.File.Compress,
		}
		closer = fw
		handler = newTeeHandler(console, slog.NewTextHandler(fw, opts))
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
