// Package dbus implements the org.notepin.Control1 D-Bus interface.
// It provides the control server exported by the daemon, the client used
// by the notepin CLI to drive a running daemon, and a signal watcher for
// following note lifecycle events on the session bus.
package dbus
