package dbus

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notepin/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateNoteTrimsText(t *testing.T) {
	s := NewControlServer(testLogger())

	var got string
	s.SetCreateHandler(func(text string) (string, error) {
		got = text
		return "01ARZ3NDEKTSV4RRFFQ69G5FAV", nil
	})

	id, derr := s.CreateNote("  hello world  ")
	require.Nil(t, derr)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", id)
	assert.Equal(t, "hello world", got)
}

func TestCreateNoteRejectsEmptyText(t *testing.T) {
	s := NewControlServer(testLogger())

	called := false
	s.SetCreateHandler(func(text string) (string, error) {
		called = true
		return "", nil
	})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, derr := s.CreateNote(text)
		assert.NotNil(t, derr)
	}
	assert.False(t, called)
}

func TestCreateNoteHandlerError(t *testing.T) {
	s := NewControlServer(testLogger())
	s.SetCreateHandler(func(text string) (string, error) {
		return "", fmt.Errorf("display unavailable")
	})

	_, derr := s.CreateNote("hello")
	require.NotNil(t, derr)
	assert.Contains(t, derr.Error(), "display unavailable")
}

func TestCreateNoteWithoutHandler(t *testing.T) {
	s := NewControlServer(testLogger())
	_, derr := s.CreateNote("hello")
	assert.NotNil(t, derr)
}

func TestRemoveNoteReportsExistence(t *testing.T) {
	s := NewControlServer(testLogger())
	s.SetRemoveHandler(func(id string) bool {
		return id == "known"
	})

	removed, derr := s.RemoveNote("known")
	require.Nil(t, derr)
	assert.True(t, removed)

	removed, derr = s.RemoveNote("unknown")
	require.Nil(t, derr)
	assert.False(t, removed)
}

func TestSetNoteTextRejectsEmptyText(t *testing.T) {
	s := NewControlServer(testLogger())

	called := false
	s.SetSetTextHandler(func(id, text string) bool {
		called = true
		return true
	})

	_, derr := s.SetNoteText("some-id", "   ")
	assert.NotNil(t, derr)
	assert.False(t, called)
}

func TestSetNoteTextTrimsAndDelegates(t *testing.T) {
	s := NewControlServer(testLogger())

	var gotID, gotText string
	s.SetSetTextHandler(func(id, text string) bool {
		gotID = id
		gotText = text
		return true
	})

	ok, derr := s.SetNoteText("some-id", "  updated  ")
	require.Nil(t, derr)
	assert.True(t, ok)
	assert.Equal(t, "some-id", gotID)
	assert.Equal(t, "updated", gotText)
}

func TestListNotesEncodesSnapshot(t *testing.T) {
	note, err := model.NewNote("snapshot me")
	require.NoError(t, err)

	s := NewControlServer(testLogger())
	s.SetListHandler(func() []*model.Note {
		return []*model.Note{note}
	})

	payload, derr := s.ListNotes()
	require.Nil(t, derr)

	decoded, err := DecodeNotes(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, note.ID, decoded[0].ID)
}

func TestListNotesEmpty(t *testing.T) {
	s := NewControlServer(testLogger())
	s.SetListHandler(func() []*model.Note { return nil })

	payload, derr := s.ListNotes()
	require.Nil(t, derr)
	assert.Equal(t, "[]", payload)
}

func TestStatusEncodes(t *testing.T) {
	s := NewControlServer(testLogger())
	s.SetStatusHandler(func() Status {
		return Status{Version: "dev", PID: 99, UptimeSeconds: 12, Notes: 3, Paused: false}
	})

	payload, derr := s.Status()
	require.Nil(t, derr)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	assert.Equal(t, "dev", raw["version"])
	assert.Equal(t, float64(99), raw["pid"])
	assert.Equal(t, float64(3), raw["notes"])
}

func TestQuitRepliesBeforeHandler(t *testing.T) {
	s := NewControlServer(testLogger())

	quitCh := make(chan struct{})
	s.SetQuitHandler(func() {
		close(quitCh)
	})

	derr := s.Quit()
	require.Nil(t, derr)

	select {
	case <-quitCh:
	case <-time.After(time.Second):
		t.Fatal("quit handler was not invoked")
	}
}

func TestShowPromptDelegates(t *testing.T) {
	s := NewControlServer(testLogger())

	called := false
	s.SetPromptHandler(func() { called = true })

	derr := s.ShowPrompt()
	require.Nil(t, derr)
	assert.True(t, called)
}

func TestIntrospectionCoversInterface(t *testing.T) {
	methods := controlMethods()
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{
		"ShowPrompt", "CreateNote", "RemoveNote", "SetNoteText",
		"ListNotes", "Status", "Quit",
	}, names)

	signals := controlSignals()
	sigNames := make([]string, 0, len(signals))
	for _, sig := range signals {
		sigNames = append(sigNames, sig.Name)
	}
	assert.ElementsMatch(t, []string{"NoteCreated", "NoteRemoved"}, sigNames)
}
