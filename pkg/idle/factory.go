// Package idle provides the idle-time sources that feed the monitor.
package idle

import (
	"fmt"
	"os"

	"github.com/Veraticus/x11-idle-sync/pkg/interfaces"
)

// NewSource creates the idle source named by kind. An empty kind or
// "auto" walks the backends in preference order and keeps the first
// one that comes up; a named kind must come up or the error is fatal.
func NewSource(kind string) (interfaces.IdleSource, error) {
	switch kind {
	case "x11":
		source, err := NewX11Source()
		if err != nil {
			return nil, err
		}
		return source, nil
	case "dbus":
		source, err := NewDBusSource()
		if err != nil {
			return nil, err
		}
		return source, nil
	case "xprintidle":
		source := NewExecSource()
		if !source.IsAvailable() {
			return nil, fmt.Errorf("xprintidle not found in PATH")
		}
		return source, nil
	case "auto", "":
		return newAutoSource()
	default:
		return nil, fmt.Errorf("unknown idle source %q", kind)
	}
}

// newAutoSource tries x11, then dbus, then xprintidle.
func newAutoSource() (interfaces.IdleSource, error) {
	if os.Getenv("DISPLAY") != "" {
		if source, err := NewX11Source(); err == nil {
			return source, nil
		}
	}

	if source, err := NewDBusSource(); err == nil {
		return source, nil
	}

	if source := NewExecSource(); source.IsAvailable() {
		return source, nil
	}

	return nil, fmt.Errorf("no usable idle source: tried x11, dbus and xprintidle")
}
