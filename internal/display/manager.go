package display

import (
	"fmt"
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notepin/internal/config"
	"github.com/jmylchreest/notepin/internal/daemon"
	"github.com/jmylchreest/notepin/internal/model"
)

// Manager owns the note windows and the input prompt. Windows are
// keyed by note ID. Every method must run on the GUI loop; callers
// off the loop marshal through the invoker.
type Manager struct {
	app    *gtk.Application
	logger *slog.Logger

	provider *gtk.CSSProvider
	prompt   *Prompt
	notes    map[string]*NoteWindow

	// Font family used for windows created after an appearance
	// change. Opacity travels on the note itself.
	fontFamily string

	// Callbacks
	onPrompt   func(text string)
	onGeometry func(id string, x, y, width, height, fontSize int)
	onText     func(id, text string)
	onEditing  func(id string, editing bool)
	onDelete   func(id string)

	started bool
}

var _ daemon.NoteDisplay = (*Manager)(nil)

// NewManager creates a display manager for the application.
func NewManager(app *gtk.Application, settings *config.Settings, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if settings == nil {
		settings = config.DefaultSettings()
	}

	return &Manager{
		app:        app,
		logger:     logger,
		provider:   gtk.NewCSSProvider(),
		notes:      make(map[string]*NoteWindow),
		fontFamily: settings.Font.Family,
	}
}

// SetPromptHandler sets the callback for submitted prompt text.
func (m *Manager) SetPromptHandler(handler func(text string)) {
	m.onPrompt = handler
}

// SetGeometryHandler sets the callback for note geometry changes.
func (m *Manager) SetGeometryHandler(handler func(id string, x, y, width, height, fontSize int)) {
	m.onGeometry = handler
}

// SetTextHandler sets the callback for committed note edits.
func (m *Manager) SetTextHandler(handler func(id, text string)) {
	m.onText = handler
}

// SetEditingHandler sets the callback for note edit mode changes.
func (m *Manager) SetEditingHandler(handler func(id string, editing bool)) {
	m.onEditing = handler
}

// SetDeleteHandler sets the callback for confirmed note deletes.
func (m *Manager) SetDeleteHandler(handler func(id string)) {
	m.onDelete = handler
}

// Start registers the CSS provider with the default display and
// builds the prompt. It fails when no display is available.
func (m *Manager) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return fmt.Errorf("no display available")
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		m.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)

	m.prompt = NewPrompt(m.app, m.logger)
	m.prompt.SetSubmitHandler(func(text string) {
		if m.onPrompt != nil {
			m.onPrompt(text)
		}
	})

	m.started = true
	m.logger.Debug("display manager started")
	return nil
}

// Stop destroys any remaining windows and the prompt.
func (m *Manager) Stop() {
	for id, w := range m.notes {
		w.Destroy()
		delete(m.notes, id)
	}
	if m.prompt != nil {
		m.prompt.Destroy()
		m.prompt = nil
	}
	m.started = false
	m.logger.Debug("display manager stopped")
}

// ApplyCSS loads theme CSS into the provider.
func (m *Manager) ApplyCSS(css string) {
	m.provider.LoadFromString(css)
}

// ShowNote creates and presents a window for the note. Showing an
// existing ID updates its text instead.
func (m *Manager) ShowNote(note *model.Note) error {
	if !m.started {
		return fmt.Errorf("display manager not started")
	}

	if w, ok := m.notes[note.ID]; ok {
		w.SetText(note.Text)
		return nil
	}

	w := NewNoteWindow(m.app, note, m.fontFamily, m.logger)
	w.OnGeometry(func(id string, x, y, width, height, fontSize int) {
		if m.onGeometry != nil {
			m.onGeometry(id, x, y, width, height, fontSize)
		}
	})
	w.OnText(func(id, text string) {
		if m.onText != nil {
			m.onText(id, text)
		}
	})
	w.OnEditing(func(id string, editing bool) {
		if m.onEditing != nil {
			m.onEditing(id, editing)
		}
	})
	w.OnDelete(func(id string) {
		if m.onDelete != nil {
			m.onDelete(id)
		}
	})

	m.notes[note.ID] = w
	w.Show()

	m.logger.Debug("note window shown", "id", note.ID, "x", note.X, "y", note.Y)
	return nil
}

// CloseNote destroys the window for the note, if present.
func (m *Manager) CloseNote(id string) {
	w, ok := m.notes[id]
	if !ok {
		return
	}
	w.Destroy()
	delete(m.notes, id)
	m.logger.Debug("note window closed", "id", id)
}

// SetNoteText replaces the displayed text of a note window.
func (m *Manager) SetNoteText(id, text string) {
	if w, ok := m.notes[id]; ok {
		w.SetText(text)
	}
}

// ApplyAppearance applies a new opacity and font family to all open
// note windows and to windows created afterwards.
func (m *Manager) ApplyAppearance(opacity float64, fontFamily string) {
	m.fontFamily = fontFamily
	for _, w := range m.notes {
		w.SetOpacity(opacity)
		w.SetFontFamily(fontFamily)
	}
}

// ShowPrompt opens the input prompt, or raises it when visible.
func (m *Manager) ShowPrompt() {
	if m.prompt != nil {
		m.prompt.Show()
	}
}

// ClosePrompt hides the input prompt, if visible.
func (m *Manager) ClosePrompt() {
	if m.prompt != nil && m.prompt.Visible() {
		m.prompt.Hide()
	}
}

// ScreenSize returns the primary monitor's dimensions in pixels, or
// zeros when they cannot be determined.
func (m *Manager) ScreenSize() (int, int) {
	return screenSize()
}

// Count returns the number of open note windows.
func (m *Manager) Count() int {
	return len(m.notes)
}
