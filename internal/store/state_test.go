package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPauseState(t *testing.T) {
	state := DefaultPauseState()

	assert.False(t, state.Paused)
	assert.Equal(t, int64(0), state.PausedUntil)
	assert.Equal(t, CurrentSchemaVersion, state.SchemaVersion)
}

func TestPauseStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	state := DefaultPauseState()
	state.SetPaused(true, time.Time{}, "cli")

	err := SavePauseState(path, state)
	require.NoError(t, err)

	loaded, err := LoadPauseState(path)
	require.NoError(t, err)
	assert.True(t, loaded.Paused)
	assert.Equal(t, int64(0), loaded.PausedUntil)
	assert.Equal(t, "cli", loaded.PausedBy)
	assert.NotZero(t, loaded.UpdatedAt)
}

func TestLoadPauseState_MissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.json")

	state, err := LoadPauseState(path)
	require.NoError(t, err)
	assert.False(t, state.Paused)
}

func TestLoadPauseState_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	err := os.WriteFile(path, []byte("{not valid json"), 0600)
	require.NoError(t, err)

	state, err := LoadPauseState(path)
	require.NoError(t, err)
	assert.False(t, state.Paused)
	assert.Equal(t, CurrentSchemaVersion, state.SchemaVersion)
}

func TestSavePauseState_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "state.json")

	err := SavePauseState(path, DefaultPauseState())
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSavePauseState_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	err := SavePauseState(path, DefaultPauseState())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestPauseState_SetPaused(t *testing.T) {
	state := DefaultPauseState()

	until := time.Now().Add(30 * time.Minute)
	state.SetPaused(true, until, "tui")

	assert.True(t, state.Paused)
	assert.Equal(t, until.Unix(), state.PausedUntil)
	assert.Equal(t, "tui", state.PausedBy)

	state.SetPaused(false, time.Time{}, "")

	assert.False(t, state.Paused)
	assert.Equal(t, int64(0), state.PausedUntil)
	assert.Empty(t, state.PausedBy)
}

func TestPauseState_Active(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		paused bool
		until  time.Time
		at     time.Time
		want   bool
	}{
		{"not paused", false, time.Time{}, now, false},
		{"paused indefinitely", true, time.Time{}, now, true},
		{"paused with future deadline", true, now.Add(time.Hour), now, true},
		{"paused with expired deadline", true, now.Add(-time.Hour), now, false},
		{"deadline far in the past", true, now.Add(-48 * time.Hour), now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := DefaultPauseState()
			state.SetPaused(tt.paused, tt.until, "test")
			assert.Equal(t, tt.want, state.Active(tt.at))
		})
	}
}

func TestPauseState_TimedPauseExpires(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	state := DefaultPauseState()
	state.SetPaused(true, time.Now().Add(50*time.Millisecond), "cli")
	require.NoError(t, SavePauseState(path, state))

	loaded, err := LoadPauseState(path)
	require.NoError(t, err)
	assert.True(t, loaded.Active(time.Now()))

	// After the deadline passes the same persisted state reads inactive.
	assert.False(t, loaded.Active(time.Now().Add(time.Second)))
}

func TestPauseState_UntilTime(t *testing.T) {
	state := DefaultPauseState()
	assert.True(t, state.UntilTime().IsZero())

	until := time.Now().Add(time.Hour).Truncate(time.Second)
	state.SetPaused(true, until, "cli")
	assert.Equal(t, until.Unix(), state.UntilTime().Unix())
}
