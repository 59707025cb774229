package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/x11-idle-sync/pkg/config"
	"github.com/Veraticus/x11-idle-sync/pkg/monitor"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configPath    string
		threshold     time.Duration
		oneShot       bool
		noResetOnExit bool
		source        string
		help          bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.DurationVarP(&threshold, "threshold", "t", 0, "Idle threshold (e.g. 300s, 5m)")
	flag.BoolVarP(&oneShot, "one-shot", "1", false, "Check once, set the hint and exit")
	flag.BoolVarP(&noResetOnExit, "no-reset-on-exit", "N", false, "Do not reset the idle hint to false on exit")
	flag.StringVar(&source, "source", "", "Idle source backend (auto, x11, dbus, xprintidle)")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if configPath != "" {
		if err := os.Setenv("IDLE_SYNC_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags
	if flag.CommandLine.Changed("threshold") {
		cfg.IdleThreshold = threshold
	}
	if oneShot {
		cfg.OneShot = true
	}
	if noResetOnExit {
		cfg.NoResetOnExit = true
	}
	if source != "" {
		cfg.Source = source
	}

	if cfg.IdleThreshold <= 0 {
		fmt.Fprintf(os.Stderr, "Error: idle threshold must be positive, got %v\n", cfg.IdleThreshold)
		os.Exit(1)
	}

	// Arm the shutdown signals before anything can block, so a signal
	// arriving during startup is not lost.
	signals := monitor.NewExitSignals()
	defer signals.Stop()

	// Create dependencies
	deps, err := NewDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	// Run the application
	app := NewApplication(deps)
	if err := app.Run(signals.Done()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		deps.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("x11-idle-sync - keep the login session's IdleHint in sync with input idle time")
	fmt.Println()
	fmt.Println("Usage: x11-idle-sync [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  IDLE_SYNC_THRESHOLD         Idle threshold as a duration (default: 5m)")
	fmt.Println("  IDLE_SYNC_NO_RESET_ON_EXIT  Skip resetting the hint on exit (true/false)")
	fmt.Println("  IDLE_SYNC_ONE_SHOT          Run a single check and exit (true/false)")
	fmt.Println("  IDLE_SYNC_SOURCE            Idle source backend (auto/x11/dbus/xprintidle)")
	fmt.Println("  IDLE_SYNC_SESSION_PATH      logind session object path")
	fmt.Println("  IDLE_SYNC_CONFIG            Path to config file")
	fmt.Println("  IDLE_SYNC_DEBUG             Set to 1 to log every sample to stderr")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/x11-idle-sync/config.yaml")
}
