package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	initial := DefaultSettings()
	require.NoError(t, initial.Save(path))

	changed := make(chan *Settings, 1)
	sw, err := NewSettingsWatcher(path, func(s *Settings) {
		select {
		case changed <- s:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, sw.Start())
	defer sw.Stop()

	updated := DefaultSettings()
	updated.Hotkey = "ctrl+alt+n"
	require.NoError(t, updated.Save(path))

	select {
	case s := <-changed:
		assert.Equal(t, "ctrl+alt+n", s.Hotkey)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for settings reload")
	}
}

func TestSettingsWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, DefaultSettings().Save(path))

	changed := make(chan *Settings, 1)
	sw, err := NewSettingsWatcher(path, func(s *Settings) {
		select {
		case changed <- s:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, sw.Start())
	defer sw.Stop()

	require.NoError(t, DefaultSettings().Save(filepath.Join(dir, "other.json")))

	select {
	case <-changed:
		t.Fatal("unrelated file must not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSettingsWatcher_StopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, DefaultSettings().Save(path))

	sw, err := NewSettingsWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, sw.Start())

	assert.NoError(t, sw.Stop())
	assert.NoError(t, sw.Stop())
}

func TestSettingsWatcher_StopWithoutStart(t *testing.T) {
	sw, err := NewSettingsWatcher(filepath.Join(t.TempDir(), "settings.json"), nil)
	require.NoError(t, err)
	assert.NoError(t, sw.Stop())
}
