package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/notepin/internal/audio"
	"github.com/jmylchreest/notepin/internal/config"
	"github.com/jmylchreest/notepin/internal/dbus"
	"github.com/jmylchreest/notepin/internal/hotkey"
	"github.com/jmylchreest/notepin/internal/layout"
	"github.com/jmylchreest/notepin/internal/model"
	"github.com/jmylchreest/notepin/internal/store"
	"github.com/jmylchreest/notepin/internal/theme"
	"github.com/jmylchreest/notepin/internal/tray"
)

// NoteDisplay abstracts the window layer the controller drives. The
// production implementation lives in internal/display. Every method is
// invoked on the GUI loop.
type NoteDisplay interface {
	// ShowNote creates and shows a window for the note.
	ShowNote(note *model.Note) error
	// CloseNote destroys the window for the note, if present.
	CloseNote(id string)
	// SetNoteText replaces the displayed text of a note window.
	SetNoteText(id, text string)
	// ApplyAppearance applies a new opacity and font family to all
	// live note windows.
	ApplyAppearance(opacity float64, fontFamily string)
	// ShowPrompt opens the input prompt, or raises it when visible.
	ShowPrompt()
	// ClosePrompt hides the input prompt, if visible.
	ClosePrompt()
	// ScreenSize returns the primary monitor's dimensions in pixels.
	ScreenSize() (width, height int)
}

// Deps carries the components the controller coordinates. Display and
// Invoker are required; the rest may be nil, in which case the matching
// functionality is skipped.
type Deps struct {
	Settings     *config.Settings
	SettingsPath string
	StatePath    string

	Display NoteDisplay
	Invoker Invoker

	Listener *hotkey.Listener
	Tray     *tray.Controller
	Server   *dbus.ControlServer
	Audio    *audio.Manager
	Themes   *theme.Loader

	Version string
}

// Controller owns the note arena and coordinates every other component:
// hotkey activations and prompt submissions become notes, gestures
// reported by the display update the arena, control calls marshal onto
// the GUI loop, and settings edits are applied live.
type Controller struct {
	logger  *slog.Logger
	version string

	display NoteDisplay
	invoker Invoker
	arena   *NoteArena
	placer  *layout.Placer

	listener *hotkey.Listener
	tray     *tray.Controller
	server   *dbus.ControlServer
	audio    *audio.Manager
	themes   *theme.Loader

	settingsPath string
	statePath    string

	settingsWatcher *config.SettingsWatcher
	pauseWatcher    *PauseWatcher

	mu        sync.RWMutex
	settings  *config.Settings
	pause     *store.PauseState
	startedAt time.Time
	running   bool

	onShutdown func()
	quitOnce   sync.Once
}

// NewController creates a Controller from its dependencies.
func NewController(deps Deps, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Settings == nil {
		deps.Settings = config.DefaultSettings()
	}
	if deps.Invoker == nil {
		deps.Invoker = SyncInvoker{}
	}
	if deps.StatePath == "" {
		deps.StatePath = config.StatePath()
	}

	return &Controller{
		logger:       logger,
		version:      deps.Version,
		display:      deps.Display,
		invoker:      deps.Invoker,
		arena:        NewNoteArena(),
		placer:       layout.NewPlacer(),
		listener:     deps.Listener,
		tray:         deps.Tray,
		server:       deps.Server,
		audio:        deps.Audio,
		themes:       deps.Themes,
		settingsPath: deps.SettingsPath,
		statePath:    deps.StatePath,
		settings:     deps.Settings,
		pause:        store.DefaultPauseState(),
	}
}

// SetShutdownHandler sets the callback invoked after teardown finishes.
// The daemon entrypoint uses it to stop the GTK main loop.
func (c *Controller) SetShutdownHandler(handler func()) {
	c.onShutdown = handler
}

// Start wires the component handlers and brings everything up: theme,
// hotkey listener, tray icon, control server, file watchers, audio. A
// hotkey registration failure and a lost bus name claim are fatal.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("controller already running")
	}
	settings := c.settings
	c.mu.Unlock()

	if c.themes != nil {
		if err := c.themes.LoadTheme(settings.Theme); err != nil {
			c.logger.Warn("failed to load theme", "theme", settings.Theme, "error", err)
		}
		c.themes.StartHotReload()
	}

	if c.listener != nil {
		c.listener.SetActivateHandler(c.HandleHotkey)
		c.listener.SetPauseCheck(c.IsPaused)
		if err := c.listener.Start(settings.Hotkey); err != nil {
			return fmt.Errorf("failed to start hotkey listener: %w", err)
		}
	}

	if c.tray != nil {
		c.tray.SetQuitHandler(c.Quit)
		if err := c.tray.Start(); err != nil {
			c.logger.Warn("failed to start tray icon", "error", err)
		}
	}

	if c.server != nil {
		c.server.SetPromptHandler(c.ShowPrompt)
		c.server.SetCreateHandler(c.CreateNote)
		c.server.SetRemoveHandler(c.RemoveNote)
		c.server.SetSetTextHandler(c.SetNoteText)
		c.server.SetListHandler(c.ListNotes)
		c.server.SetStatusHandler(c.Status)
		c.server.SetQuitHandler(c.Quit)
		if err := c.server.Start(); err != nil {
			if c.listener != nil {
				c.listener.Stop()
			}
			if c.tray != nil {
				c.tray.Stop()
			}
			return fmt.Errorf("failed to start control server: %w", err)
		}
	}

	sw, err := config.NewSettingsWatcher(c.settingsPath, c.HandleSettingsChanged)
	if err != nil {
		c.logger.Warn("failed to create settings watcher", "error", err)
	} else {
		c.settingsWatcher = sw
		if err := sw.Start(); err != nil {
			c.logger.Warn("failed to start settings watcher", "error", err)
		}
	}

	if state, err := store.LoadPauseState(c.statePath); err == nil {
		c.mu.Lock()
		c.pause = state
		c.mu.Unlock()
	}
	c.pauseWatcher = NewPauseWatcher(c.statePath, c.logger)
	c.pauseWatcher.SetChangeCallback(c.HandlePauseChanged)
	if err := c.pauseWatcher.Start(); err != nil {
		c.logger.Warn("failed to start pause watcher", "error", err)
	}

	if c.audio != nil {
		if err := c.audio.Start(); err != nil {
			c.logger.Warn("failed to start audio manager", "error", err)
		}
	}

	c.mu.Lock()
	c.startedAt = time.Now()
	c.running = true
	c.mu.Unlock()

	c.logger.Info("controller started", "version", c.version)
	return nil
}

// Quit tears everything down in order: hotkey listener, tray, note
// windows, prompt, control server, watchers, audio. Idempotent; safe to
// call from any goroutine. Component failures are logged and skipped so
// shutdown always completes.
func (c *Controller) Quit() {
	c.quitOnce.Do(c.quit)
}

func (c *Controller) quit() {
	c.logger.Info("shutting down")

	if c.listener != nil {
		if err := c.listener.Stop(); err != nil {
			c.logger.Warn("failed to stop hotkey listener", "error", err)
		}
	}

	if c.tray != nil {
		c.tray.Stop()
	}

	if c.display != nil {
		// Queued rather than awaited: queued tasks run in order, so the
		// windows close before the shutdown handler's own queued task
		// stops the GUI loop. Waiting here would deadlock a quit that
		// originates on the loop itself.
		c.invoker.Invoke(func() {
			for _, id := range c.arena.IDs() {
				c.display.CloseNote(id)
				c.arena.Remove(id)
			}
			c.display.ClosePrompt()
		})
	}

	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			c.logger.Warn("failed to stop control server", "error", err)
		}
	}

	if c.settingsWatcher != nil {
		if err := c.settingsWatcher.Stop(); err != nil {
			c.logger.Warn("failed to stop settings watcher", "error", err)
		}
	}
	if c.pauseWatcher != nil {
		c.pauseWatcher.Stop()
	}
	if c.themes != nil {
		c.themes.StopHotReload()
	}

	if c.audio != nil {
		c.audio.Stop()
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.logger.Info("shutdown complete")

	if c.onShutdown != nil {
		c.onShutdown()
	}
}

// ShowPrompt opens or raises the input prompt. Blocks until the GUI
// loop has handled it.
func (c *Controller) ShowPrompt() {
	c.invoker.InvokeSync(func() {
		c.display.ShowPrompt()
	})
}

// CreateNote creates a note from text and returns its ID. Blocks until
// the window is up.
func (c *Controller) CreateNote(text string) (string, error) {
	var (
		id  string
		err error
	)
	c.invoker.InvokeSync(func() {
		id, err = c.createNote(text)
	})
	return id, err
}

// RemoveNote removes a note and its window. Returns false when no such
// note exists.
func (c *Controller) RemoveNote(id string) bool {
	var removed bool
	c.invoker.InvokeSync(func() {
		removed = c.removeNote(id)
	})
	return removed
}

// SetNoteText replaces a note's text. Returns false when no such note
// exists.
func (c *Controller) SetNoteText(id, text string) bool {
	var ok bool
	c.invoker.InvokeSync(func() {
		ok = c.setNoteText(id, text)
	})
	return ok
}

// ListNotes returns clones of the live notes in creation order.
func (c *Controller) ListNotes() []*model.Note {
	return c.arena.List()
}

// Status reports the daemon's current status.
func (c *Controller) Status() dbus.Status {
	c.mu.RLock()
	startedAt := c.startedAt
	c.mu.RUnlock()

	var uptime int64
	if !startedAt.IsZero() {
		uptime = int64(time.Since(startedAt).Seconds())
	}

	return dbus.Status{
		Version:       c.version,
		PID:           os.Getpid(),
		UptimeSeconds: uptime,
		Notes:         c.arena.Count(),
		Paused:        c.IsPaused(),
	}
}

// IsPaused reports whether hotkey activation is currently paused.
func (c *Controller) IsPaused() bool {
	c.mu.RLock()
	pause := c.pause
	c.mu.RUnlock()
	return pause != nil && pause.Active(time.Now())
}

// createNote runs on the GUI loop.
func (c *Controller) createNote(text string) (string, error) {
	note, err := model.NewNote(text)
	if err != nil {
		return "", err
	}

	settings := c.currentSettings()
	note.Opacity = settings.WindowOpacity
	note.FontSize = settings.Font.Size

	screenW, screenH := c.display.ScreenSize()
	if screenW > 0 && screenH > 0 {
		note.X, note.Y = c.placer.Next(screenW, screenH)
	} else {
		// No monitor geometry available; fall back to the configured
		// default position.
		note.X = settings.DefaultPosition.X
		note.Y = settings.DefaultPosition.Y
	}

	c.arena.Add(note)
	if err := c.display.ShowNote(note); err != nil {
		c.arena.Remove(note.ID)
		return "", fmt.Errorf("failed to show note: %w", err)
	}

	c.logger.Info("note created", "id", note.ID, "x", note.X, "y", note.Y)
	c.playEvent(audio.EventCreate)
	c.emitCreated(note.ID)

	return note.ID, nil
}

// removeNote runs on the GUI loop.
func (c *Controller) removeNote(id string) bool {
	if !c.arena.Remove(id) {
		return false
	}
	c.display.CloseNote(id)

	c.logger.Info("note removed", "id", id)
	c.playEvent(audio.EventDelete)
	c.emitRemoved(id)

	return true
}

// setNoteText runs on the GUI loop.
func (c *Controller) setNoteText(id, text string) bool {
	note := c.arena.Get(id)
	if note == nil {
		return false
	}
	note.Text = text
	c.display.SetNoteText(id, text)

	c.logger.Debug("note text updated", "id", id, "length", len(text))
	return true
}

// HandleHotkey runs on the hotkey listener goroutine when the global
// shortcut fires.
func (c *Controller) HandleHotkey() {
	c.logger.Debug("hotkey activated")
	c.invoker.Invoke(func() {
		c.display.ShowPrompt()
	})
}

// HandlePromptSubmit runs on the GUI loop when the prompt accepts text.
func (c *Controller) HandlePromptSubmit(text string) {
	if _, err := c.createNote(text); err != nil {
		// The prompt never submits blank input, but guard anyway.
		if errors.Is(err, model.ErrEmptyText) {
			return
		}
		c.logger.Error("failed to create note from prompt", "error", err)
	}
}

// HandleNoteGeometry runs on the GUI loop after a move or resize
// gesture ends. A fontSize of 0 leaves the stored size unchanged.
func (c *Controller) HandleNoteGeometry(id string, x, y, width, height, fontSize int) {
	note := c.arena.Get(id)
	if note == nil {
		c.logger.Debug("geometry update for unknown note", "id", id)
		return
	}

	note.X, note.Y = x, y
	note.Width, note.Height = width, height
	if fontSize > 0 {
		note.FontSize = fontSize
	}
}

// HandleNoteText runs on the GUI loop when leaving edit mode. The
// current entry content is committed whether the edit was accepted or
// cancelled.
func (c *Controller) HandleNoteText(id, text string) {
	note := c.arena.Get(id)
	if note == nil {
		c.logger.Debug("text update for unknown note", "id", id)
		return
	}
	note.Text = text
}

// HandleNoteEditing runs on the GUI loop when a note enters or leaves
// edit mode.
func (c *Controller) HandleNoteEditing(id string, editing bool) {
	note := c.arena.Get(id)
	if note == nil {
		return
	}
	note.Editing = editing
}

// HandleNoteDelete runs on the GUI loop when a delete is confirmed.
func (c *Controller) HandleNoteDelete(id string) {
	c.removeNote(id)
}

// HandleSettingsChanged is called from the settings watcher goroutine
// after the settings file is reloaded. Opacity, font family, theme, and
// sound changes are applied live; a hotkey change takes effect on next
// start.
func (c *Controller) HandleSettingsChanged(newSettings *config.Settings) {
	c.mu.Lock()
	old := c.settings
	c.settings = newSettings
	c.mu.Unlock()

	c.logger.Info("settings reloaded")

	if newSettings.Hotkey != old.Hotkey {
		c.logger.Info("hotkey changed; restart the daemon to apply it",
			"old", old.Hotkey, "new", newSettings.Hotkey)
	}

	if c.audio != nil && newSettings.Sound != old.Sound {
		c.audio.UpdateSettings(newSettings.Sound)
	}

	if c.themes != nil && newSettings.Theme != old.Theme {
		c.themes.StopHotReload()
		if err := c.themes.LoadTheme(newSettings.Theme); err != nil {
			c.logger.Warn("failed to load theme", "theme", newSettings.Theme, "error", err)
		}
		c.themes.StartHotReload()
	}

	opacityChanged := newSettings.WindowOpacity != old.WindowOpacity
	fontChanged := newSettings.Font.Family != old.Font.Family
	if opacityChanged || fontChanged {
		c.invoker.Invoke(func() {
			if opacityChanged {
				for _, id := range c.arena.IDs() {
					if note := c.arena.Get(id); note != nil {
						note.Opacity = newSettings.WindowOpacity
					}
				}
			}
			c.display.ApplyAppearance(newSettings.WindowOpacity, newSettings.Font.Family)
		})
	}
}

// HandlePauseChanged is called from the pause watcher goroutine after
// the pause-state file is reloaded.
func (c *Controller) HandlePauseChanged(state *store.PauseState) {
	c.mu.Lock()
	c.pause = state
	c.mu.Unlock()

	if state.Active(time.Now()) {
		c.logger.Info("hotkey paused", "by", state.PausedBy, "until", state.UntilTime())
	} else {
		c.logger.Info("hotkey resumed")
	}
}

// currentSettings returns the live settings pointer.
func (c *Controller) currentSettings() *config.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// playEvent plays an event sound off the GUI loop. Failures are logged,
// never fatal.
func (c *Controller) playEvent(event string) {
	if c.audio == nil {
		return
	}
	go func() {
		if err := c.audio.PlayEvent(event); err != nil {
			c.logger.Warn("failed to play event sound", "event", event, "error", err)
		}
	}()
}

// emitCreated emits the NoteCreated signal off the GUI loop.
func (c *Controller) emitCreated(id string) {
	if c.server == nil {
		return
	}
	go func() {
		if err := c.server.EmitNoteCreated(id); err != nil {
			c.logger.Debug("failed to emit NoteCreated", "id", id, "error", err)
		}
	}()
}

// emitRemoved emits the NoteRemoved signal off the GUI loop.
func (c *Controller) emitRemoved(id string) {
	if c.server == nil {
		return
	}
	go func() {
		if err := c.server.EmitNoteRemoved(id); err != nil {
			c.logger.Debug("failed to emit NoteRemoved", "id", id, "error", err)
		}
	}()
}
