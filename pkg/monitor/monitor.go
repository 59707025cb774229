// Package monitor implements the idle monitoring loop that keeps the
// session manager's idle hint in sync with sampled input idle time.
package monitor

import (
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/x11-idle-sync/pkg/interfaces"
)

// State classifies the user's current activity.
type State int

const (
	StateActive State = iota
	StateIdle
)

// String returns the human-readable state name.
func (s State) String() string {
	if s == StateIdle {
		return "idle"
	}
	return "active"
}

// minPollInterval is the floor for the derived poll cadence.
const minPollInterval = 5 * time.Second

// PollInterval derives the poll cadence from the idle threshold:
// a tenth of the threshold, clamped to a 5 second floor.
func PollInterval(threshold time.Duration) time.Duration {
	interval := threshold / 10
	if interval < minPollInterval {
		interval = minPollInterval
	}
	return interval
}

// Monitor owns the poll cadence and the current activity state. It is
// single-threaded: all state lives on the goroutine that calls Run or
// CheckOnce, and the source and sink are never called concurrently.
type Monitor struct {
	threshold time.Duration
	interval  time.Duration
	source    interfaces.IdleSource
	sink      interfaces.SessionSink
	out       io.Writer
	debug     io.Writer
	state     State
}

// New creates a monitor for the given threshold and collaborator
// handles. The poll interval is derived once here and never changes.
func New(threshold time.Duration, source interfaces.IdleSource, sink interfaces.SessionSink, out io.Writer) *Monitor {
	return &Monitor{
		threshold: threshold,
		interval:  PollInterval(threshold),
		source:    source,
		sink:      sink,
		out:       out,
		state:     StateActive,
	}
}

// Interval returns the derived poll interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// SetDebugWriter makes every tick write its raw sample to w.
func (m *Monitor) SetDebugWriter(w io.Writer) {
	m.debug = w
}

// Run executes the monitoring loop until stop is closed or a tick
// fails. Shutdown is only checked between ticks; a tick's work,
// including its session call, always runs to completion. The timer is
// re-armed after each tick, so a slow session call delays the next
// sample rather than overlapping it.
func (m *Monitor) Run(stop <-chan struct{}) error {
	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			fmt.Fprintln(m.out, "Received shutdown signal, exiting idle monitoring loop...")
			return nil
		case <-timer.C:
			if err := m.tick(); err != nil {
				return err
			}
			timer.Reset(m.interval)
		}
	}
}

// tick performs one sample-compare-set cycle. The session call is made
// every tick, not only on change; logind treats a repeated hint as a
// no-op but an omitted one as staleness.
func (m *Monitor) tick() error {
	idleTime, err := m.source.IdleTime()
	if err != nil {
		return fmt.Errorf("failed to sample idle time: %w", err)
	}

	newState := StateActive
	if idleTime >= m.threshold {
		newState = StateIdle
	}

	if err := m.sink.SetIdleHint(newState == StateIdle); err != nil {
		return fmt.Errorf("failed to set idle hint: %w", err)
	}

	if m.debug != nil {
		fmt.Fprintf(m.debug, "x11-idle-sync: idle for %v (threshold %v)\n", idleTime, m.threshold)
	}

	if newState != m.state {
		fmt.Fprintf(m.out, "User is %s\n", newState)
	}
	m.state = newState

	return nil
}

// CheckOnce performs a single sample-compare-set cycle with no loop
// and no shutdown handling. The state line is only printed when the
// user is idle: a one-shot run starts from the Active state, so an
// active result is not a transition.
func (m *Monitor) CheckOnce() error {
	idleTime, err := m.source.IdleTime()
	if err != nil {
		return fmt.Errorf("failed to sample idle time: %w", err)
	}

	state := StateActive
	if idleTime >= m.threshold {
		state = StateIdle
	}

	if err := m.sink.SetIdleHint(state == StateIdle); err != nil {
		return fmt.Errorf("failed to set idle hint: %w", err)
	}

	if state == StateIdle {
		fmt.Fprintf(m.out, "User is %s\n", state)
	}

	return nil
}

// ResetIdleHint clears the session idle flag. The caller invokes this
// exactly once after a graceful Run, never after a failed one.
func (m *Monitor) ResetIdleHint() error {
	if err := m.sink.SetIdleHint(false); err != nil {
		return fmt.Errorf("failed to reset idle hint: %w", err)
	}
	return nil
}
