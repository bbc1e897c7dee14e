package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notepin/internal/model"
)

func testNotes() []model.Note {
	now := time.Now().Unix()
	return []model.Note{
		{ID: "01HZ0000000000000000000001", Text: "pick up milk", CreatedAt: now - 300},
		{ID: "01HZ0000000000000000000002", Text: "Call the dentist", CreatedAt: now - 200},
		{ID: "01HZ0000000000000000000003", Text: "standup at 10", CreatedAt: now - 100},
	}
}

func TestLookupByID(t *testing.T) {
	notes := testNotes()

	n := LookupByID(notes, "01HZ0000000000000000000002")
	require.NotNil(t, n)
	assert.Equal(t, "Call the dentist", n.Text)

	assert.Nil(t, LookupByID(notes, "01HZ0000000000000000000099"))
	assert.Nil(t, LookupByID(nil, "01HZ0000000000000000000001"))
}

func TestLookupByIndex(t *testing.T) {
	notes := testNotes()

	tests := []struct {
		name  string
		index int
		want  string // expected text, "" = nil
	}{
		{"first", 1, "pick up milk"},
		{"last", 3, "standup at 10"},
		{"zero is out of bounds", 0, ""},
		{"negative", -1, ""},
		{"past the end", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := LookupByIndex(notes, tt.index)
			if tt.want == "" {
				assert.Nil(t, n)
			} else {
				require.NotNil(t, n)
				assert.Equal(t, tt.want, n.Text)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	notes := testNotes()

	tests := []struct {
		name string
		term string
		want int
	}{
		{"empty term matches all", "", 3},
		{"substring", "milk", 1},
		{"case insensitive", "CALL", 1},
		{"letter across notes", "t", 2},
		{"no match", "zebra", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(notes, tt.term)
			assert.Len(t, got, tt.want)
		})
	}
}
