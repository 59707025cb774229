package monitor

import (
	"os"
	"os/signal"
	"syscall"
)

// ExitSignals collapses SIGINT and SIGTERM into a single shutdown
// event. The handlers are installed at construction, before the loop's
// first wait, so a signal arriving early is never lost.
type ExitSignals struct {
	sigChan chan os.Signal
	done    chan struct{}
}

// NewExitSignals installs the signal handlers and starts forwarding.
func NewExitSignals() *ExitSignals {
	s := &ExitSignals{
		sigChan: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	signal.Notify(s.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-s.sigChan
		close(s.done)
	}()

	return s
}

// Done returns a channel that is closed once a termination signal
// arrives. The channel stays closed, so a shutdown that loses a select
// race is still observed on the next iteration.
func (s *ExitSignals) Done() <-chan struct{} {
	return s.done
}

// Stop uninstalls the signal handlers.
func (s *ExitSignals) Stop() {
	signal.Stop(s.sigChan)
}
