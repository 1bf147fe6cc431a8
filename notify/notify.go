// Package notify implements the fire-and-forget side effects fired on a
// track change: a desktop notification over D-Bus and an optional
// user-supplied command. Failures are logged and swallowed; the session
// never hears about them.
package notify

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	notifyObject    = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyTimeoutMs = 5000
)

// Desktop sends notifications via the org.freedesktop.Notifications
// session-bus service.
type Desktop struct {
	conn     *dbus.Conn
	iconPath string
}

// NewDesktop connects to the session bus. On systems without one (ssh
// sessions, containers) the returned error just means "no notifications".
func NewDesktop(iconPath string) (*Desktop, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &Desktop{conn: conn, iconPath: iconPath}, nil
}

// Notify pops a desktop notification for a track change.
func (d *Desktop) Notify(channel, title string) {
	obj := d.conn.Object(notifyObject, notifyPath)
	call := obj.Call(notifyMethod, 0,
		"etere",         // app name
		uint32(0),       // replaces nothing
		d.iconPath,      // icon, may be empty
		channel,         // summary
		title,           // body
		[]string{},      // no actions
		map[string]dbus.Variant{},
		int32(notifyTimeoutMs),
	)
	if call.Err != nil {
		log.Debug().Err(call.Err).Msg("desktop notification failed")
	}
}

// Close releases the bus connection.
func (d *Desktop) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
