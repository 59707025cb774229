package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/x11-idle-sync/pkg/config"
	"github.com/Veraticus/x11-idle-sync/pkg/idle"
	"github.com/Veraticus/x11-idle-sync/pkg/interfaces"
	"github.com/Veraticus/x11-idle-sync/pkg/monitor"
	"github.com/Veraticus/x11-idle-sync/pkg/session"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config  *config.Config
	Source  interfaces.IdleSource
	Sink    interfaces.SessionSink
	Monitor *monitor.Monitor
	Out     io.Writer
	Err     io.Writer
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	source, err := idle.NewSource(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to create idle source: %w", err)
	}

	sink, err := session.NewClient(cfg.SessionPath)
	if err != nil {
		closeQuietly(source)
		return nil, fmt.Errorf("failed to create session client: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		Source: source,
		Sink:   sink,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	deps.Monitor = monitor.New(cfg.IdleThreshold, source, sink, deps.Out)

	if os.Getenv("IDLE_SYNC_DEBUG") == "1" {
		deps.Monitor.SetDebugWriter(os.Stderr)
	}

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	closeQuietly(d.Source)
	closeQuietly(d.Sink)
}

func closeQuietly(v any) {
	if closer, ok := v.(io.Closer); ok {
		_ = closer.Close() // Best effort
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run executes one-shot or continuous monitoring per the
// configuration. stop is the shutdown event; it is ignored in one-shot
// mode, which performs exactly one check.
func (a *Application) Run(stop <-chan struct{}) error {
	cfg := a.deps.Config
	mon := a.deps.Monitor

	fmt.Fprintf(a.deps.Out, "x11-idle-sync started with idle threshold %v (polling every %v)\n",
		cfg.IdleThreshold, mon.Interval())

	if cfg.OneShot {
		return mon.CheckOnce()
	}

	if err := mon.Run(stop); err != nil {
		return err
	}

	// The reset below runs only on the graceful path; a failed Run
	// returned above and must leave the hint as the last tick set it.
	if cfg.NoResetOnExit {
		fmt.Fprintln(a.deps.Out, "Exiting without resetting idle hint.")
		return nil
	}

	if err := mon.ResetIdleHint(); err != nil {
		// Shutdown was already graceful; report the failure without
		// turning it into a failed run.
		fmt.Fprintf(a.deps.Err, "x11-idle-sync: %v\n", err)
		return nil
	}

	fmt.Fprintln(a.deps.Out, "Idle hint set to false. Exiting.")
	return nil
}
