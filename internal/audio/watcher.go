package audio

import (
	"log/slog"
	"maps"
	"os"
	"sync"
	"time"
)

// SoundWatcher polls watched sound files and invalidates the player's
// cache when one changes on disk.
type SoundWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player

	// Paths to watch with their last seen modification times
	watched map[string]time.Time

	pollInterval time.Duration

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSoundWatcher creates a watcher invalidating into the given player.
func NewSoundWatcher(player *Player, logger *slog.Logger) *SoundWatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &SoundWatcher{
		logger:       logger,
		player:       player,
		watched:      make(map[string]time.Time),
		pollInterval: 2 * time.Second,
	}
}

// SetPollInterval sets the polling interval.
func (w *SoundWatcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// Watch adds a path to the watch list.
func (w *SoundWatcher) Watch(path string) {
	if path == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := os.Stat(path); err == nil {
		w.watched[path] = info.ModTime()
	} else {
		w.watched[path] = time.Time{}
	}
}

// Unwatch removes a path from the watch list.
func (w *SoundWatcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, path)
}

// Start begins polling. Starting a running watcher is a no-op.
func (w *SoundWatcher) Start() error {
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

	w.logger.Debug("sound watcher started", "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (w *SoundWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("sound watcher stopped")
}

// IsRunning reports whether the watcher loop is active.
func (w *SoundWatcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *SoundWatcher) watchLoop(interval time.Duration) {
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

// checkForChanges invalidates cached sounds whose files were modified.
func (w *SoundWatcher) checkForChanges() {
	w.mu.RLock()
	paths := make(map[string]time.Time, len(w.watched))
	maps.Copy(paths, w.watched)
	w.mu.RUnlock()

	for path, lastMod := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		modTime := info.ModTime()
		if !modTime.After(lastMod) {
			continue
		}

		w.logger.Debug("sound file changed, invalidating cache", "path", path)

		w.mu.Lock()
		w.watched[path] = modTime
		w.mu.Unlock()

		if w.player != nil {
			w.player.InvalidateCache(path)
		}
	}
}
