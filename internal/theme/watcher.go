package theme

import (
	"log/slog"
	"sync"
	"time"
)

// Watcher polls a theme's source file and reports recompiled CSS when
// it changes.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	theme *Theme

	pollInterval time.Duration

	onChange func(css string)

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given theme.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:       logger,
		theme:        theme,
		pollInterval: 2 * time.Second,
	}
}

// SetPollInterval sets the polling interval.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback invoked with the recompiled CSS
// after a change.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins polling. Starting a running watcher is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval := w.pollInterval
	w.mu.Unlock()

	go w.watchLoop(interval)

	w.logger.Debug("theme watcher started", "theme", w.theme.Name, "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("theme watcher stopped")
}

// IsRunning reports whether the watcher loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
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

// checkForChanges reloads the theme and dispatches new CSS.
func (w *Watcher) checkForChanges() {
	changed, err := w.theme.Reload()
	if err != nil {
		w.logger.Debug("theme reload failed", "theme", w.theme.Name, "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Debug("theme file changed", "theme", w.theme.Name)

	w.mu.RLock()
	callback := w.onChange
	w.mu.RUnlock()

	if callback != nil {
		callback(w.theme.CSS)
	}
}
