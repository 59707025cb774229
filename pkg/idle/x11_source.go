package idle

import (
	"fmt"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
)

// X11Source reads idle time from the X server's MIT-SCREEN-SAVER
// extension, the same counter screen lockers consult. This is the
// preferred backend when a display is available.
type X11Source struct {
	conn *xgb.Conn
	root xproto.Drawable
}

// NewX11Source connects to the X server named by DISPLAY and prepares
// the screensaver extension query against the default root window.
func NewX11Source() (*X11Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11 server: %w", err)
	}

	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize screensaver extension: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	return &X11Source{
		conn: conn,
		root: xproto.Drawable(root),
	}, nil
}

// IdleTime returns the time since the last input event on the display.
func (s *X11Source) IdleTime() (time.Duration, error) {
	info, err := screensaver.QueryInfo(s.conn, s.root).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to query screensaver info: %w", err)
	}

	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

// Close shuts down the X11 connection.
func (s *X11Source) Close() error {
	s.conn.Close()
	return nil
}
