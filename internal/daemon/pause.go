package daemon

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/notepin/internal/store"
)

// PauseWatcher watches the shared pause-state file for changes. The CLI
// writes the file; the daemon reloads it here so `notepin pause` takes
// effect without any direct daemon call.
type PauseWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	statePath    string
	lastModTime  time.Time
	pollInterval time.Duration

	onChangeCallback func(state *store.PauseState)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewPauseWatcher creates a new PauseWatcher for the given state file path.
func NewPauseWatcher(statePath string, logger *slog.Logger) *PauseWatcher {
	return &PauseWatcher{
		logger:       logger,
		statePath:    statePath,
		pollInterval: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetPollInterval sets the polling interval for file changes.
func (w *PauseWatcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback invoked with the freshly loaded
// pause state after every detected change.
func (w *PauseWatcher) SetChangeCallback(callback func(state *store.PauseState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins watching the state file for changes.
func (w *PauseWatcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true

	if info, err := os.Stat(w.statePath); err == nil {
		w.lastModTime = info.ModTime()
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.watchLoop()

	w.logger.Debug("pause watcher started", "path", w.statePath, "interval", w.pollInterval)
	return nil
}

// Stop stops watching the state file.
func (w *PauseWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("pause watcher stopped")
}

// watchLoop is the main polling loop.
func (w *PauseWatcher) watchLoop() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

// checkForChanges reloads the pause state when the file has been modified.
func (w *PauseWatcher) checkForChanges() {
	w.mu.RLock()
	callback := w.onChangeCallback
	lastModTime := w.lastModTime
	w.mu.RUnlock()

	info, err := os.Stat(w.statePath)
	if err != nil {
		// File might not exist yet or was deleted
		if !os.IsNotExist(err) {
			w.logger.Debug("failed to stat state file", "path", w.statePath, "error", err)
		}
		return
	}

	modTime := info.ModTime()
	if !modTime.After(lastModTime) {
		return
	}

	w.mu.Lock()
	w.lastModTime = modTime
	w.mu.Unlock()

	state, err := store.LoadPauseState(w.statePath)
	if err != nil {
		w.logger.Warn("failed to reload pause state", "path", w.statePath, "error", err)
		return
	}

	w.logger.Debug("pause state changed", "paused", state.Paused, "paused_by", state.PausedBy)

	if callback != nil {
		callback(state)
	}
}
