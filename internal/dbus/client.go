package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notepin/internal/model"
)

// ErrDaemonNotRunning is returned when no process owns the control bus name.
var ErrDaemonNotRunning = errors.New("notepin daemon is not running")

// Client calls the control interface of a running daemon. All methods are
// synchronous; the daemon replies once the requested work has completed on
// its GUI loop.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus. It does not verify that a daemon
// is running; use Ping for that.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

// Ping checks that a daemon currently owns the control bus name.
// Returns ErrDaemonNotRunning when nothing does.
func (c *Client) Ping() error {
	var owned bool
	err := c.conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&owned)
	if err != nil {
		return fmt.Errorf("failed to query bus name owner: %w", err)
	}
	if !owned {
		return ErrDaemonNotRunning
	}
	return nil
}

// ShowPrompt opens or raises the daemon's input prompt.
func (c *Client) ShowPrompt() error {
	if call := c.obj.Call(InterfaceName+".ShowPrompt", 0); call.Err != nil {
		return fmt.Errorf("failed to show prompt: %w", call.Err)
	}
	return nil
}

// CreateNote creates a note and returns its ID.
func (c *Client) CreateNote(text string) (string, error) {
	var id string
	if err := c.obj.Call(InterfaceName+".CreateNote", 0, text).Store(&id); err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}
	return id, nil
}

// RemoveNote removes a note by ID. Returns false when the daemon had no
// note with that ID.
func (c *Client) RemoveNote(id string) (bool, error) {
	var removed bool
	if err := c.obj.Call(InterfaceName+".RemoveNote", 0, id).Store(&removed); err != nil {
		return false, fmt.Errorf("failed to remove note: %w", err)
	}
	return removed, nil
}

// SetNoteText replaces a note's text. Returns false when the daemon had
// no note with that ID.
func (c *Client) SetNoteText(id, text string) (bool, error) {
	var ok bool
	if err := c.obj.Call(InterfaceName+".SetNoteText", 0, id, text).Store(&ok); err != nil {
		return false, fmt.Errorf("failed to set note text: %w", err)
	}
	return ok, nil
}

// ListNotes returns the daemon's live notes in creation order.
func (c *Client) ListNotes() ([]model.Note, error) {
	var payload string
	if err := c.obj.Call(InterfaceName+".ListNotes", 0).Store(&payload); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return DecodeNotes(payload)
}

// Status returns the daemon's status.
func (c *Client) Status() (Status, error) {
	var payload string
	if err := c.obj.Call(InterfaceName+".Status", 0).Store(&payload); err != nil {
		return Status{}, fmt.Errorf("failed to query status: %w", err)
	}
	return DecodeStatus(payload)
}

// Quit asks the daemon to shut down. The daemon replies before tearing
// down, so a nil error means the request was accepted, not that the
// process has exited.
func (c *Client) Quit() error {
	if call := c.obj.Call(InterfaceName+".Quit", 0); call.Err != nil {
		return fmt.Errorf("failed to quit daemon: %w", call.Err)
	}
	return nil
}
