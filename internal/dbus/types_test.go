package dbus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notepin/internal/model"
)

func TestStatusRoundTrip(t *testing.T) {
	status := Status{
		Version:       "1.2.3",
		PID:           4242,
		UptimeSeconds: 360,
		Notes:         5,
		Paused:        true,
	}

	payload, err := EncodeStatus(status)
	require.NoError(t, err)

	decoded, err := DecodeStatus(payload)
	require.NoError(t, err)
	assert.Equal(t, status, decoded)
}

func TestStatusFieldNames(t *testing.T) {
	payload, err := EncodeStatus(Status{Version: "dev", PID: 1})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	assert.Contains(t, raw, "version")
	assert.Contains(t, raw, "pid")
	assert.Contains(t, raw, "uptime_seconds")
	assert.Contains(t, raw, "notes")
	assert.Contains(t, raw, "paused")
}

func TestDecodeStatusInvalid(t *testing.T) {
	_, err := DecodeStatus("{not json")
	assert.Error(t, err)
}

func TestEncodeNotesNil(t *testing.T) {
	payload, err := EncodeNotes(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", payload)
}

func TestNotesRoundTrip(t *testing.T) {
	first, err := model.NewNote("first note")
	require.NoError(t, err)
	second, err := model.NewNote("second note")
	require.NoError(t, err)

	payload, err := EncodeNotes([]*model.Note{first, second})
	require.NoError(t, err)

	decoded, err := DecodeNotes(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, first.ID, decoded[0].ID)
	assert.Equal(t, "first note", decoded[0].Text)
	assert.Equal(t, second.ID, decoded[1].ID)
	assert.Equal(t, "second note", decoded[1].Text)
}

func TestDecodeNotesInvalid(t *testing.T) {
	_, err := DecodeNotes("not json")
	assert.Error(t, err)
}
