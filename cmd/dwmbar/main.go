package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyhb/dwmbar"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootFlags holds the daemon's command line overrides. Flags win over the
// config file, the config file wins over built-in defaults.
type rootFlags struct {
	ConfigPath string
	TriggerDir string
	LogLevel   string
	Profile    bool
}

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "dwmbar",
		Short: "Concurrent dwm status bar daemon",
		Long: "dwmbar runs independent monitor producers on their own schedules,\n" +
			"merges their latest fragments into one ordered status line, and\n" +
			"pushes it to the X root window name on every update. Monitors can\n" +
			"be refreshed early by creating a file named after the monitor id\n" +
			"in the trigger directory.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			app, err := dwmbar.New(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}

	root.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "path to TOML config file")
	root.Flags().StringVar(&flags.TriggerDir, "trigger-dir", "", "directory watched for manual trigger files")
	root.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().BoolVarP(&flags.Profile, "profile", "p", false, "log each monitor run's duration")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the dwmbar version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("dwmbar %s\n", version)
		},
	})

	return root
}

func resolveConfig(flags *rootFlags) (dwmbar.Config, error) {
	cfg := dwmbar.DefaultConfig()
	if flags.ConfigPath != "" {
		loaded, err := dwmbar.LoadConfig(flags.ConfigPath)
		if err != nil {
			return dwmbar.Config{}, err
		}
		cfg = loaded
	}
	if flags.TriggerDir != "" {
		cfg.TriggerDir = flags.TriggerDir
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.Profile {
		cfg.Profile = true
	}
	return cfg, nil
}
