package theme

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmylchreest/notepin/internal/config"
)

// Loader resolves themes by name and pushes compiled CSS to an apply
// callback. The GTK layer registers a callback feeding its CSS
// provider, which keeps this package free of toolkit dependencies.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	theme       *Theme
	watcher     *Watcher

	onApply func(css string)
}

// NewLoader creates a theme loader over the user theme directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: config.ThemesDir(),
	}
}

// SetApplyHandler sets the callback receiving compiled CSS whenever a
// theme loads or reloads.
func (l *Loader) SetApplyHandler(handler func(css string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onApply = handler
}

// LoadTheme loads a theme by name. Resolution order:
//  1. User theme directory, <name>.css
//  2. User theme directory, <name>.toml
//  3. Embedded theme of that name
//  4. Embedded default theme
//
// A user file with a bundled name overrides the bundled theme.
func (l *Loader) LoadTheme(name string) error {
	if name == "" {
		name = DefaultThemeName
	}

	theme := l.resolve(name)

	l.mu.Lock()
	l.theme = theme
	l.currentName = theme.Name
	handler := l.onApply
	css := theme.CSS
	l.mu.Unlock()

	if handler != nil {
		handler(css)
	}
	return nil
}

// resolve walks the resolution order for a theme name.
func (l *Loader) resolve(name string) *Theme {
	if l.themesDir != "" {
		for _, ext := range []string{".css", ".toml"} {
			path := filepath.Join(l.themesDir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			theme, err := NewTheme(name, path)
			if err != nil {
				l.logger.Warn("failed to load user theme", "theme", name, "path", path, "error", err)
				continue
			}
			l.logger.Info("loaded user theme", "name", name, "path", path)
			return theme
		}
	}

	if css, found := GetEmbeddedTheme(name); found {
		l.logger.Info("loaded bundled theme", "name", name)
		return &Theme{
			Name:      name,
			CSS:       ProcessImports(css, "", nil),
			IsDefault: name == DefaultThemeName,
		}
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	return NewDefaultTheme()
}

// Theme returns the currently loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// CSS returns the compiled CSS of the current theme.
func (l *Loader) CSS() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.CSS
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// Reload re-resolves the current theme from disk.
func (l *Loader) Reload() error {
	l.mu.RLock()
	name := l.currentName
	l.mu.RUnlock()
	return l.LoadTheme(name)
}

// StartHotReload watches the current theme file; changes re-apply
// through the apply callback. Embedded themes have no file to watch.
func (l *Loader) StartHotReload() {
	l.mu.Lock()

	if l.theme == nil || l.theme.Path == "" {
		l.mu.Unlock()
		l.logger.Debug("not watching an embedded theme")
		return
	}

	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		l.mu.Lock()
		handler := l.onApply
		l.mu.Unlock()

		if handler != nil {
			handler(css)
		}
		l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
	})
	watcher := l.watcher
	l.mu.Unlock()

	if err := watcher.Start(); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme file.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	watcher := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}
}

// ListThemes returns the available theme names, bundled and user.
func (l *Loader) ListThemes() []string {
	infos, err := ListAvailableThemes()
	if err != nil {
		l.logger.Debug("failed to list themes", "error", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
