// Package session talks to the systemd-logind session object over the
// system bus.
package session

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest        = "org.freedesktop.login1"
	setIdleHintMethod = "org.freedesktop.login1.Session.SetIdleHint"
)

// Client sets the idle hint on one logind session. It is the sole
// writer of that flag for the session it is bound to.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the system bus and binds the session object at
// path. logind's "self" alias resolves to the calling process's own
// session.
func NewClient(path string) (*Client, error) {
	objPath := dbus.ObjectPath(path)
	if !objPath.IsValid() {
		return nil, fmt.Errorf("invalid session object path %q", path)
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system D-Bus: %w", err)
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(login1Dest, objPath),
	}, nil
}

// SetIdleHint pushes the idle flag to logind.
func (c *Client) SetIdleHint(idle bool) error {
	if call := c.obj.Call(setIdleHintMethod, 0, idle); call.Err != nil {
		return fmt.Errorf("SetIdleHint call on %s failed: %w", c.obj.Path(), call.Err)
	}
	return nil
}

// Close shuts down the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
