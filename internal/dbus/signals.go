package dbus

import (
	"fmt"
)

// EmitNoteCreated emits the NoteCreated signal. External tooling can
// subscribe to it to follow the note lifecycle without polling.
func (s *ControlServer) EmitNoteCreated(id string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(ObjectPath, InterfaceName+".NoteCreated", id); err != nil {
		return fmt.Errorf("failed to emit NoteCreated signal: %w", err)
	}

	s.logger.Debug("emitted NoteCreated signal", "id", id)
	return nil
}

// EmitNoteRemoved emits the NoteRemoved signal.
func (s *ControlServer) EmitNoteRemoved(id string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(ObjectPath, InterfaceName+".NoteRemoved", id); err != nil {
		return fmt.Errorf("failed to emit NoteRemoved signal: %w", err)
	}

	s.logger.Debug("emitted NoteRemoved signal", "id", id)
	return nil
}
