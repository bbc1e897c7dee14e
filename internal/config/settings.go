// Package config handles the notepin settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default settings values.
const (
	DefaultHotkey     = "ctrl+shift+t"
	DefaultOpacity    = 0.9
	DefaultPositionX  = 100
	DefaultPositionY  = 100
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 12
	DefaultTheme      = "default"
	DefaultVolume     = 1.0
)

// Settings errors.
var (
	// ErrMalformedSettings marks a settings file that could not be
	// parsed; callers fall back to defaults and leave the file alone.
	ErrMalformedSettings = errors.New("malformed settings file")

	ErrEmptyHotkey     = errors.New("hotkey cannot be empty")
	ErrInvalidOpacity  = errors.New("window_opacity must be between 0 and 1")
	ErrEmptyFontFamily = errors.New("font family cannot be empty")
	ErrInvalidFontSize = errors.New("font size must be greater than 0")
	ErrInvalidVolume   = errors.New("sound volume must be between 0 and 1")
)

// Settings represents the notepin settings file. The on-disk format
// is a JSON object; unknown keys are ignored and missing keys keep
// their defaults.
type Settings struct {
	Hotkey          string        `json:"hotkey"`
	WindowOpacity   float64       `json:"window_opacity"`
	DefaultPosition Position      `json:"default_position"`
	Font            FontSettings  `json:"font"`
	Theme           string        `json:"theme"`
	Sound           SoundSettings `json:"sound"`
}

// Position is an on-screen coordinate pair.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FontSettings selects the note font.
type FontSettings struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

// SoundSettings configures optional audio feedback.
type SoundSettings struct {
	Enabled bool    `json:"enabled"`
	Create  string  `json:"create,omitempty"`
	Delete  string  `json:"delete,omitempty"`
	Volume  float64 `json:"volume"`
}

// DefaultSettings returns a Settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Hotkey:        DefaultHotkey,
		WindowOpacity: DefaultOpacity,
		DefaultPosition: Position{
			X: DefaultPositionX,
			Y: DefaultPositionY,
		},
		Font: FontSettings{
			Family: DefaultFontFamily,
			Size:   DefaultFontSize,
		},
		Theme: DefaultTheme,
		Sound: SoundSettings{
			Enabled: false,
			Volume:  DefaultVolume,
		},
	}
}

// ConfigDir returns the notepin configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "notepin")
}

// SettingsPath returns the path to the settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// ThemesDir returns the user theme directory.
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// IconPath returns the path of the optional user tray icon.
func IconPath() string {
	return filepath.Join(ConfigDir(), "icon.png")
}

// StateDir returns the notepin runtime state directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "notepin")
}

// StatePath returns the path to the pause-state file.
func StatePath() string {
	return filepath.Join(StateDir(), "state.json")
}

// LoadSettings loads settings from the specified path (the default
// path when empty). A missing file is created with defaults. A
// malformed or invalid file is left untouched on disk; defaults are
// returned together with a wrapped ErrMalformedSettings so the caller
// can log the problem without failing.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = SettingsPath()
	}

	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if saveErr := s.Save(path); saveErr != nil {
				return s, fmt.Errorf("failed to write default settings: %w", saveErr)
			}
			return s, nil
		}
		return DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}

	// Unmarshal on top of the defaults so missing keys keep them. A
	// parse failure may leave s partially filled, so return a fresh
	// default set instead.
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}

	if err := s.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}

	return s, nil
}

// Save writes the settings to the specified path (the default path
// when empty) atomically via a temp file and rename.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = SettingsPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	return nil
}

// Validate checks that all settings are within range.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Hotkey) == "" {
		return ErrEmptyHotkey
	}
	if s.WindowOpacity < 0 || s.WindowOpacity > 1 {
		return ErrInvalidOpacity
	}
	if strings.TrimSpace(s.Font.Family) == "" {
		return ErrEmptyFontFamily
	}
	if s.Font.Size <= 0 {
		return ErrInvalidFontSize
	}
	if s.Sound.Volume < 0 || s.Sound.Volume > 1 {
		return ErrInvalidVolume
	}
	return nil
}

// Get looks up a value by dotted key path ("font.family") and returns
// def when the path does not resolve. Lookup goes through the JSON
// field names, so it sees exactly the keys the file format uses.
func (s *Settings) Get(key string, def any) any {
	data, err := json.Marshal(s)
	if err != nil {
		return def
	}

	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return def
	}

	cur := any(root)
	for _, part := range strings.Split(key, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = node[part]
		if !ok {
			return def
		}
	}
	return cur
}

// GetString looks up a string by dotted key path, with a default.
func (s *Settings) GetString(key, def string) string {
	if v, ok := s.Get(key, def).(string); ok {
		return v
	}
	return def
}

// GetFloat looks up a number by dotted key path, with a default.
func (s *Settings) GetFloat(key string, def float64) float64 {
	if v, ok := s.Get(key, def).(float64); ok {
		return v
	}
	return def
}

// GetInt looks up an integer by dotted key path, with a default.
// JSON numbers decode as float64, so integral values are converted.
func (s *Settings) GetInt(key string, def int) int {
	switch v := s.Get(key, def).(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	clone := *s
	return &clone
}
