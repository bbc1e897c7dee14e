package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// SettingsWatcher watches the settings file for changes so the daemon
// can apply edits without a restart.
type SettingsWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func(*Settings)
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewSettingsWatcher creates a watcher for the settings file at
// filePath (the default path when empty). onChange receives the
// freshly loaded settings after every successful reload.
func NewSettingsWatcher(filePath string, onChange func(*Settings)) (*SettingsWatcher, error) {
	if filePath == "" {
		filePath = SettingsPath()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &SettingsWatcher{
		watcher:  watcher,
		filePath: filePath,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the settings file for changes.
func (sw *SettingsWatcher) Start() error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = true
	sw.mu.Unlock()

	// Watch the directory containing the file (more reliable for
	// editors that replace via rename)
	dir := filepath.Dir(sw.filePath)
	if err := sw.watcher.Add(dir); err != nil {
		return err
	}

	go sw.watch()
	return nil
}

// watch is the main watch loop.
func (sw *SettingsWatcher) watch() {
	filename := filepath.Base(sw.filePath)

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				slog.Debug("settings file changed, reloading", "file", sw.filePath)
				settings, err := LoadSettings(sw.filePath)
				if err != nil {
					slog.Warn("failed to reload settings", "error", err)
					continue
				}
				if sw.onChange != nil {
					sw.onChange(settings)
				}
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("settings watcher error", "error", err)

		case <-sw.done:
			return
		}
	}
}

// Stop stops the settings watcher.
func (sw *SettingsWatcher) Stop() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.running {
		return nil
	}

	sw.running = false
	close(sw.done)
	return sw.watcher.Close()
}
