package audio

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notepin/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManagerDisabledPlaysNothing(t *testing.T) {
	m := NewManager(config.SoundSettings{Enabled: false}, testLogger())

	assert.NoError(t, m.PlayEvent(EventCreate))
	assert.NoError(t, m.PlayEvent(EventDelete))
}

func TestManagerMissingSoundFileSkipped(t *testing.T) {
	m := NewManager(config.SoundSettings{
		Enabled: true,
		Create:  "/nonexistent/create.wav",
		Volume:  1.0,
	}, testLogger())

	// The missing file is dropped at load time, so playing the event
	// is a no-op rather than an error.
	assert.NoError(t, m.PlayEvent(EventCreate))
	assert.Empty(t, m.sounds)
}

func TestManagerUnconfiguredEventIsNoOp(t *testing.T) {
	m := NewManager(config.SoundSettings{Enabled: true, Volume: 1.0}, testLogger())

	assert.NoError(t, m.PlayEvent(EventDelete))
}

func TestManagerVolumeApplied(t *testing.T) {
	m := NewManager(config.SoundSettings{Enabled: true, Volume: 0.4}, testLogger())
	assert.InDelta(t, 0.4, m.player.Volume(), 0.001)

	m.UpdateSettings(config.SoundSettings{Enabled: true, Volume: 0.9})
	assert.InDelta(t, 0.9, m.player.Volume(), 0.001)
}

func TestManagerRegistersExistingSounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "create.wav")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0600))

	m := NewManager(config.SoundSettings{
		Enabled: true,
		Create:  path,
		Volume:  1.0,
	}, testLogger())

	assert.Equal(t, path, m.sounds[EventCreate])
}

func TestPlayerVolumeClamped(t *testing.T) {
	p := NewPlayer(testLogger())

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.5)
	assert.Equal(t, 0.0, p.Volume())
}

func TestVolumeToDecibels(t *testing.T) {
	assert.Equal(t, float64(-100), volumeToDecibels(0))
	assert.InDelta(t, 0, volumeToDecibels(1.0), 0.001)
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
}

func TestPlayEmptyPath(t *testing.T) {
	p := NewPlayer(testLogger())
	assert.NoError(t, p.Play(""))
}

func TestPlayUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sound.aiff")
	require.NoError(t, os.WriteFile(path, []byte("aiff data"), 0600))

	p := NewPlayer(testLogger())
	err := p.Play(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestSoundWatcherLifecycle(t *testing.T) {
	w := NewSoundWatcher(nil, testLogger())
	w.SetPollInterval(10 * time.Millisecond)

	assert.False(t, w.IsRunning())
	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())

	// Start again is a no-op.
	require.NoError(t, w.Start())

	w.Stop()
	assert.False(t, w.IsRunning())

	// Stop again is a no-op.
	w.Stop()
}

func TestSoundWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ping.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))

	p := NewPlayer(testLogger())
	p.cacheMutex.Lock()
	p.cache[path] = nil
	p.cacheMutex.Unlock()

	w := NewSoundWatcher(p, testLogger())
	w.SetPollInterval(10 * time.Millisecond)
	w.Watch(path)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Touch the file with a newer mtime.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		p.cacheMutex.RLock()
		defer p.cacheMutex.RUnlock()
		_, ok := p.cache[path]
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
