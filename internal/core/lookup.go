// Package core provides filtering, sorting, and lookup logic for
// note collections.
package core

import (
	"strings"

	"github.com/jmylchreest/notepin/internal/model"
)

// LookupByID finds a note by its ID.
// Returns nil if not found.
func LookupByID(notes []model.Note, id string) *model.Note {
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i]
		}
	}
	return nil
}

// LookupByIndex finds a note by its index (1-based for
// user-friendliness). Returns nil if index is out of bounds.
func LookupByIndex(notes []model.Note, index int) *model.Note {
	idx := index - 1
	if idx < 0 || idx >= len(notes) {
		return nil
	}
	return &notes[idx]
}

// Search finds notes whose text matches a search term.
// Case-insensitive substring match; an empty term matches everything.
func Search(notes []model.Note, term string) []model.Note {
	if term == "" {
		return notes
	}

	term = strings.ToLower(term)
	var result []model.Note

	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Text), term) {
			result = append(result, n)
		}
	}

	return result
}
