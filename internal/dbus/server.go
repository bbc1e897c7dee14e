package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/notepin/internal/model"
)

// ErrAlreadyRunning is returned by Start when the bus name is owned by
// another process, meaning a daemon instance is already running.
var ErrAlreadyRunning = errors.New("another notepin daemon is already running")

// PromptHandler is called when ShowPrompt is requested.
type PromptHandler func()

// CreateHandler is called with trimmed note text and returns the new note ID.
type CreateHandler func(text string) (string, error)

// RemoveHandler is called to remove a note. It reports whether the note existed.
type RemoveHandler func(id string) bool

// SetTextHandler is called to replace a note's text. It reports whether
// the note existed.
type SetTextHandler func(id, text string) bool

// ListHandler returns a snapshot of the live notes.
type ListHandler func() []*model.Note

// StatusHandler returns the daemon's current status.
type StatusHandler func() Status

// QuitHandler is called when Quit is requested.
type QuitHandler func()

// ControlServer exports the org.notepin.Control1 interface on the session
// bus. It holds no note state of its own; every method delegates to a
// handler installed by the daemon controller. Handlers are expected to
// marshal onto the GUI loop themselves and block until the work is done,
// so replies carry the real outcome.
type ControlServer struct {
	conn   *dbus.Conn
	logger *slog.Logger

	promptHandler  PromptHandler
	createHandler  CreateHandler
	removeHandler  RemoveHandler
	setTextHandler SetTextHandler
	listHandler    ListHandler
	statusHandler  StatusHandler
	quitHandler    QuitHandler

	mu      sync.Mutex
	running bool
}

// NewControlServer creates a new ControlServer.
func NewControlServer(logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{logger: logger}
}

// SetPromptHandler sets the handler called for ShowPrompt.
func (s *ControlServer) SetPromptHandler(handler PromptHandler) {
	s.promptHandler = handler
}

// SetCreateHandler sets the handler called for CreateNote.
func (s *ControlServer) SetCreateHandler(handler CreateHandler) {
	s.createHandler = handler
}

// SetRemoveHandler sets the handler called for RemoveNote.
func (s *ControlServer) SetRemoveHandler(handler RemoveHandler) {
	s.removeHandler = handler
}

// SetSetTextHandler sets the handler called for SetNoteText.
func (s *ControlServer) SetSetTextHandler(handler SetTextHandler) {
	s.setTextHandler = handler
}

// SetListHandler sets the handler called for ListNotes.
func (s *ControlServer) SetListHandler(handler ListHandler) {
	s.listHandler = handler
}

// SetStatusHandler sets the handler called for Status.
func (s *ControlServer) SetStatusHandler(handler StatusHandler) {
	s.statusHandler = handler
}

// SetQuitHandler sets the handler called for Quit.
func (s *ControlServer) SetQuitHandler(handler QuitHandler) {
	s.quitHandler = handler
}

// Start connects to the session bus, exports the control object, and
// claims the well-known name. Returns ErrAlreadyRunning (wrapped) when
// the name is owned by another process.
func (s *ControlServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, ObjectPath, InterfaceName); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    InterfaceName,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	// No queueing and no replacement: a second instance must fail fast.
	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w (bus name %s is taken)", ErrAlreadyRunning, BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus control server started", "interface", InterfaceName, "path", ObjectPath)
	return nil
}

// Stop releases the bus name. The shared session bus connection stays open.
func (s *ControlServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus control server stopped")
	return nil
}

// ShowPrompt opens or raises the input prompt.
// D-Bus method: ShowPrompt() -> nothing
func (s *ControlServer) ShowPrompt() *dbus.Error {
	s.logger.Debug("ShowPrompt called")

	if s.promptHandler == nil {
		return dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}
	s.promptHandler()
	return nil
}

// CreateNote creates a note from the given text and returns its ID.
// Text is trimmed; empty text is an error.
// D-Bus method: CreateNote(s) -> s
func (s *ControlServer) CreateNote(text string) (string, *dbus.Error) {
	s.logger.Debug("CreateNote called", "length", len(text))

	text = strings.TrimSpace(text)
	if text == "" {
		return "", dbus.MakeFailedError(fmt.Errorf("note text cannot be empty"))
	}
	if s.createHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}

	id, err := s.createHandler(text)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// RemoveNote removes a note by ID. Returns false when no such note exists.
// D-Bus method: RemoveNote(s) -> b
func (s *ControlServer) RemoveNote(id string) (bool, *dbus.Error) {
	s.logger.Debug("RemoveNote called", "id", id)

	if s.removeHandler == nil {
		return false, dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}
	return s.removeHandler(id), nil
}

// SetNoteText replaces a note's text. Returns false when no such note
// exists. Empty replacement text is rejected.
// D-Bus method: SetNoteText(ss) -> b
func (s *ControlServer) SetNoteText(id, text string) (bool, *dbus.Error) {
	s.logger.Debug("SetNoteText called", "id", id, "length", len(text))

	text = strings.TrimSpace(text)
	if text == "" {
		return false, dbus.MakeFailedError(fmt.Errorf("note text cannot be empty"))
	}
	if s.setTextHandler == nil {
		return false, dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}
	return s.setTextHandler(id, text), nil
}

// ListNotes returns all live notes as a JSON array.
// D-Bus method: ListNotes() -> s
func (s *ControlServer) ListNotes() (string, *dbus.Error) {
	s.logger.Debug("ListNotes called")

	if s.listHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}

	payload, err := EncodeNotes(s.listHandler())
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return payload, nil
}

// Status returns the daemon status as a JSON object.
// D-Bus method: Status() -> s
func (s *ControlServer) Status() (string, *dbus.Error) {
	s.logger.Debug("Status called")

	if s.statusHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}

	payload, err := EncodeStatus(s.statusHandler())
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return payload, nil
}

// Quit asks the daemon to shut down. The handler runs on a separate
// goroutine so the reply reaches the caller before teardown begins.
// D-Bus method: Quit() -> nothing
func (s *ControlServer) Quit() *dbus.Error {
	s.logger.Debug("Quit called")

	if s.quitHandler == nil {
		return dbus.MakeFailedError(fmt.Errorf("daemon not ready"))
	}
	go s.quitHandler()
	return nil
}

// controlMethods returns the D-Bus method introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "ShowPrompt",
		},
		{
			Name: "CreateNote",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "RemoveNote",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "removed", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "SetNoteText",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "ok", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "ListNotes",
			Args: []introspect.Arg{
				{Name: "json", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "json", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Quit",
		},
	}
}

// controlSignals returns the D-Bus signal introspection data.
func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NoteCreated",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
			},
		},
		{
			Name: "NoteRemoved",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
			},
		},
	}
}
