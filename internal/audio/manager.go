package audio

import (
	"log/slog"
	"maps"
	"os"
	"sync"

	"github.com/jmylchreest/notepin/internal/config"
)

// Events with configurable sounds.
const (
	EventCreate = "create"
	EventDelete = "delete"
)

// Manager plays the configured sound for note lifecycle events.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *SoundWatcher

	enabled bool

	// Event name to sound path mapping
	sounds map[string]string
}

// NewManager creates an audio manager from the sound settings.
func NewManager(settings config.SoundSettings, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger)

	m := &Manager{
		logger:  logger,
		player:  player,
		watcher: NewSoundWatcher(player, logger),
		sounds:  make(map[string]string),
	}
	m.applySettings(settings)

	return m
}

// applySettings loads volume and event sound paths from settings.
func (m *Manager) applySettings(settings config.SoundSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = settings.Enabled
	m.player.SetVolume(settings.Volume)

	m.sounds = make(map[string]string)
	for event, path := range map[string]string{
		EventCreate: settings.Create,
		EventDelete: settings.Delete,
	} {
		if path == "" {
			continue
		}
		expanded := expandPath(path)
		if _, err := os.Stat(expanded); err != nil {
			m.logger.Warn("sound file not found", "event", event, "path", expanded)
			continue
		}
		m.sounds[event] = expanded
		m.logger.Debug("loaded sound", "event", event, "path", expanded)
	}
}

// Start preloads the configured sounds and begins watching them for
// changes.
func (m *Manager) Start() error {
	m.mu.RLock()
	sounds := make(map[string]string, len(m.sounds))
	maps.Copy(sounds, m.sounds)
	m.mu.RUnlock()

	for _, path := range sounds {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}

	if err := m.watcher.Start(); err != nil {
		return err
	}

	m.logger.Info("audio manager started", "sounds", len(sounds))
	return nil
}

// Stop shuts down the watcher and releases the speaker.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// PlayEvent plays the sound configured for the given event, if any.
func (m *Manager) PlayEvent(event string) error {
	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[event]
	m.mu.RUnlock()

	if !enabled {
		return nil
	}
	if !ok {
		m.logger.Debug("no sound configured for event", "event", event)
		return nil
	}

	return m.player.Play(path)
}

// UpdateSettings applies new sound settings, called on settings hot
// reload.
func (m *Manager) UpdateSettings(settings config.SoundSettings) {
	m.player.ClearCache()
	m.applySettings(settings)

	m.mu.RLock()
	sounds := make(map[string]string, len(m.sounds))
	maps.Copy(sounds, m.sounds)
	m.mu.RUnlock()

	for _, path := range sounds {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound on reload", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}

	m.logger.Debug("audio manager settings updated")
}
