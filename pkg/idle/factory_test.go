package idle

import (
	"strings"
	"testing"
)

func TestNewSource_UnknownKind(t *testing.T) {
	source, err := NewSource("wayland")
	if err == nil {
		t.Fatal("NewSource(\"wayland\") succeeded, want error")
	}
	if source != nil {
		t.Errorf("NewSource returned %v alongside an error", source)
	}
	if !strings.Contains(err.Error(), "unknown idle source") {
		t.Errorf("error = %v, want unknown-source context", err)
	}
}

func TestNewSource_X11WithoutDisplay(t *testing.T) {
	// Without a display the X11 backend must fail construction rather
	// than hand back a dead source.
	t.Setenv("DISPLAY", "")

	source, err := NewSource("x11")
	if err == nil {
		if closer, ok := source.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		t.Skip("an X server is reachable in this environment")
	}
	if source != nil {
		t.Errorf("NewSource returned %v alongside an error", source)
	}
}
