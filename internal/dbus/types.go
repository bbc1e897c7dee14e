package dbus

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/notepin/internal/model"
)

const (
	// BusName is the well-known bus name claimed by the daemon. A failed
	// claim means another instance is already running.
	BusName = "org.notepin.Control"
	// ObjectPath is the control object path.
	ObjectPath = "/org/notepin/Control"
	// InterfaceName is the control interface name.
	InterfaceName = "org.notepin.Control1"
)

// Status describes a running daemon. It is returned by the Status method
// as a JSON object.
type Status struct {
	Version       string `json:"version"`
	PID           int    `json:"pid"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Notes         int    `json:"notes"`
	Paused        bool   `json:"paused"`
}

// EncodeStatus marshals a status record for the wire.
func EncodeStatus(status Status) (string, error) {
	data, err := json.Marshal(status)
	if err != nil {
		return "", fmt.Errorf("failed to encode status: %w", err)
	}
	return string(data), nil
}

// DecodeStatus unmarshals a status record received from the daemon.
func DecodeStatus(payload string) (Status, error) {
	var status Status
	if err := json.Unmarshal([]byte(payload), &status); err != nil {
		return Status{}, fmt.Errorf("failed to decode status: %w", err)
	}
	return status, nil
}

// EncodeNotes marshals a note list for the wire. A nil or empty slice
// encodes as an empty JSON array rather than null.
func EncodeNotes(notes []*model.Note) (string, error) {
	if notes == nil {
		notes = []*model.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("failed to encode notes: %w", err)
	}
	return string(data), nil
}

// DecodeNotes unmarshals a note list received from the daemon.
func DecodeNotes(payload string) ([]model.Note, error) {
	var notes []model.Note
	if err := json.Unmarshal([]byte(payload), &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}
