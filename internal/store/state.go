// Package store persists the small runtime state shared between the
// notepin CLI and the daemon.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/notepin/internal/config"
)

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// PauseState controls whether the daemon reacts to the global hotkey.
// The CLI writes it, the daemon polls it, so pausing works without a
// round-trip through the control interface.
type PauseState struct {
	Paused      bool   `json:"paused"`
	PausedUntil int64  `json:"paused_until,omitempty"` // Unix seconds; 0 = until resumed
	PausedBy    string `json:"paused_by,omitempty"`    // Source identifier (cli, tui, daemon)
	UpdatedAt   int64  `json:"updated_at"`

	// Version for compatibility
	SchemaVersion int `json:"schema_version"`
}

// stateFileMutex protects concurrent access to the state file.
var stateFileMutex sync.RWMutex

// DefaultPauseState returns a new PauseState with default values.
func DefaultPauseState() *PauseState {
	return &PauseState{
		Paused:        false,
		SchemaVersion: CurrentSchemaVersion,
	}
}

// LoadPauseState loads the pause state from path (the default state
// path when empty). A missing or corrupted file yields the default
// state.
func LoadPauseState(path string) (*PauseState, error) {
	stateFileMutex.RLock()
	defer stateFileMutex.RUnlock()

	if path == "" {
		path = config.StatePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPauseState(), nil
		}
		return nil, err
	}

	var state PauseState
	if err := json.Unmarshal(data, &state); err != nil {
		// If the file is corrupted, return default state
		return DefaultPauseState(), nil
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	return &state, nil
}

// SavePauseState saves the pause state to path (the default state
// path when empty) atomically.
func SavePauseState(path string, state *PauseState) error {
	stateFileMutex.Lock()
	defer stateFileMutex.Unlock()

	if path == "" {
		path = config.StatePath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// SetPaused updates the pause state. A zero until means the pause
// holds until explicitly resumed.
func (s *PauseState) SetPaused(paused bool, until time.Time, source string) {
	s.Paused = paused
	s.UpdatedAt = time.Now().Unix()

	if paused {
		s.PausedBy = source
		if until.IsZero() {
			s.PausedUntil = 0
		} else {
			s.PausedUntil = until.Unix()
		}
	} else {
		s.PausedBy = ""
		s.PausedUntil = 0
	}
}

// Active reports whether the pause is in effect at the given time.
// A timed pause expires on its own once the deadline passes.
func (s *PauseState) Active(now time.Time) bool {
	if !s.Paused {
		return false
	}
	if s.PausedUntil == 0 {
		return true
	}
	return now.Unix() < s.PausedUntil
}

// UntilTime returns the pause deadline, or the zero time for an
// open-ended pause.
func (s *PauseState) UntilTime() time.Time {
	if s.PausedUntil == 0 {
		return time.Time{}
	}
	return time.Unix(s.PausedUntil, 0)
}
