package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// NoteEventHandler is called with the ID of a created or removed note.
type NoteEventHandler func(id string)

// NoteWatcher subscribes to the control interface's NoteCreated and
// NoteRemoved signals. The TUI uses it to refresh immediately instead of
// waiting for the next poll tick.
type NoteWatcher struct {
	logger *slog.Logger

	onCreated NoteEventHandler
	onRemoved NoteEventHandler

	mu      sync.Mutex
	conn    *dbus.Conn
	signals chan *dbus.Signal
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewNoteWatcher creates a new NoteWatcher.
func NewNoteWatcher(logger *slog.Logger) *NoteWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteWatcher{logger: logger}
}

// SetCreatedHandler sets the callback for NoteCreated signals.
func (w *NoteWatcher) SetCreatedHandler(handler NoteEventHandler) {
	w.onCreated = handler
}

// SetRemovedHandler sets the callback for NoteRemoved signals.
func (w *NoteWatcher) SetRemovedHandler(handler NoteEventHandler) {
	w.onRemoved = handler
}

// Start subscribes to note lifecycle signals on the session bus.
func (w *NoteWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(InterfaceName),
	)
	if err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	w.conn = conn
	w.signals = make(chan *dbus.Signal, 16)
	conn.Signal(w.signals)

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.run()

	w.logger.Debug("note watcher started")
	return nil
}

// Stop unsubscribes and waits for the dispatch loop to exit. The shared
// session bus connection stays open.
func (w *NoteWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.conn.RemoveSignal(w.signals)
	err := w.conn.RemoveMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(InterfaceName),
	)
	if err != nil {
		w.logger.Warn("failed to remove match rule", "error", err)
	}
	w.conn = nil

	w.logger.Debug("note watcher stopped")
}

// run dispatches incoming signals until stopped.
func (w *NoteWatcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case sig, ok := <-w.signals:
			if !ok {
				return
			}
			w.dispatch(sig)
		}
	}
}

// dispatch routes a signal to the matching handler.
func (w *NoteWatcher) dispatch(sig *dbus.Signal) {
	if sig == nil || len(sig.Body) < 1 {
		return
	}
	id, ok := sig.Body[0].(string)
	if !ok {
		return
	}

	switch sig.Name {
	case InterfaceName + ".NoteCreated":
		if w.onCreated != nil {
			w.onCreated(id)
		}
	case InterfaceName + ".NoteRemoved":
		if w.onRemoved != nil {
			w.onRemoved(id)
		}
	}
}
