package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/notepin/internal/model"
)

func makeNote(text string, age time.Duration) model.Note {
	return model.Note{
		ID:        fmt.Sprintf("01ARZ3NDEKTSV4RRFFQ69G5%03d", len(text)),
		Text:      text,
		X:         1650,
		Y:         20,
		Width:     model.DefaultWidth,
		Height:    model.DefaultHeight,
		Opacity:   1.0,
		CreatedAt: time.Now().Add(-age).Unix(),
	}
}

func TestPlainFormatter(t *testing.T) {
	notes := []model.Note{
		makeNote("buy milk", 5*time.Minute),
		makeNote("call dentist", 2*time.Hour),
	}

	var buf bytes.Buffer
	f := NewPlainFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, notes))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[1] buy milk")
	assert.Contains(t, lines[0], "5m ago")
	assert.Contains(t, lines[1], "[2] call dentist")
	assert.Contains(t, lines[1], "2h ago")
}

func TestPlainFormatterGeometry(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.ShowGeometry = true

	var buf bytes.Buffer
	f := NewPlainFormatter(opts)
	require.NoError(t, f.Format(&buf, []model.Note{makeNote("hello", time.Minute)}))

	assert.Contains(t, buf.String(), "500x200 at (1650,20)")
}

func TestPlainFormatterTemplate(t *testing.T) {
	opts := FormatterOptions{Template: "{{.Index}}: {{.Note.Text}}\n"}

	var buf bytes.Buffer
	f := NewPlainFormatter(opts)
	require.NoError(t, f.Format(&buf, []model.Note{makeNote("templated", time.Minute)}))

	assert.Equal(t, "1: templated\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	notes := []model.Note{makeNote("json me", time.Minute)}

	var buf bytes.Buffer
	f := NewJSONFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, notes))

	var decoded []model.Note
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "json me", decoded[0].Text)
	assert.Equal(t, notes[0].ID, decoded[0].ID)
}

func TestJSONFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestYAMLFormatter(t *testing.T) {
	notes := []model.Note{makeNote("yaml me", time.Minute)}
	notes[0].FontSize = 18

	var buf bytes.Buffer
	f := NewYAMLFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, notes))

	assert.Contains(t, buf.String(), "text: yaml me")
	assert.Contains(t, buf.String(), "font_size: 18")

	var decoded []model.Note
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "yaml me", decoded[0].Text)
	assert.Equal(t, 18, decoded[0].FontSize)
}

func TestIDsFormatter(t *testing.T) {
	notes := []model.Note{
		makeNote("one", time.Minute),
		makeNote("three", time.Minute),
	}

	var buf bytes.Buffer
	f := NewIDsFormatter()
	require.NoError(t, f.Format(&buf, notes))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, notes[0].ID, lines[0])
	assert.Equal(t, notes[1].ID, lines[1])
}

func TestDmenuFormatter(t *testing.T) {
	notes := []model.Note{makeNote("pick me", 10*time.Minute)}

	var buf bytes.Buffer
	f := NewDmenuFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, notes))

	assert.Equal(t, "1 | 10m | pick me\n", buf.String())
}

func TestDmenuFormatterCollapsesNewlines(t *testing.T) {
	notes := []model.Note{makeNote("line one\nline two", time.Minute)}

	var buf bytes.Buffer
	f := NewDmenuFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, notes))

	assert.Contains(t, buf.String(), "line one line two")
	assert.NotContains(t, strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestDmenuFormatterTruncates(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.TextMaxLen = 10
	notes := []model.Note{makeNote("this text is far too long", time.Minute)}

	var buf bytes.Buffer
	f := NewDmenuFormatter(opts)
	require.NoError(t, f.Format(&buf, notes))

	assert.Contains(t, buf.String(), "this te...")
}

func TestDmenuFormatterCustomSeparator(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.Separator = " :: "
	notes := []model.Note{makeNote("sep", time.Minute)}

	var buf bytes.Buffer
	f := NewDmenuFormatter(opts)
	require.NoError(t, f.Format(&buf, notes))

	assert.Contains(t, buf.String(), " :: ")
}

func TestDmenuFormatterTemplate(t *testing.T) {
	opts := FormatterOptions{Template: "{{.RelativeTime}} {{truncate .Note.Text 5}}"}
	notes := []model.Note{makeNote("abcdefghij", 3*time.Minute)}

	var buf bytes.Buffer
	f := NewDmenuFormatter(opts)
	require.NoError(t, f.Format(&buf, notes))

	assert.Equal(t, "3m ab...\n", buf.String())
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		ts       int64
		expected string
	}{
		{"zero", 0, "unknown"},
		{"seconds ago", now.Add(-30 * time.Second).Unix(), "now"},
		{"minutes ago", now.Add(-5 * time.Minute).Unix(), "5m"},
		{"hours ago", now.Add(-3 * time.Hour).Unix(), "3h"},
		{"days ago", now.Add(-48 * time.Hour).Unix(), "2d"},
		{"weeks ago", now.Add(-14 * 24 * time.Hour).Unix(), "2w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relativeTime(tt.ts))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain, opts))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, opts))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML, opts))
	assert.IsType(t, &IDsFormatter{}, NewFormatter(FormatIDs, opts))
	assert.IsType(t, &DmenuFormatter{}, NewFormatter(FormatDmenu, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter("bogus", opts))
}
