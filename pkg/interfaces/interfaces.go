// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// IdleSource reports how long the user has been idle.
type IdleSource interface {
	// IdleTime returns the duration since the last input event.
	IdleTime() (time.Duration, error)
}

// SessionSink receives idle-state updates for the login session.
type SessionSink interface {
	// SetIdleHint pushes the idle flag to the session manager.
	SetIdleHint(idle bool) error
}
