package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/notepin/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreated SortField = "created"
	SortByText    SortField = "text"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options: creation order,
// matching the on-screen stacking order.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByCreated,
		Order: SortAsc,
	}
}

// Sort sorts notes in place based on the provided options.
func Sort(notes []model.Note, opts SortOptions) {
	if len(notes) == 0 {
		return
	}

	sort.SliceStable(notes, func(i, j int) bool {
		var less bool

		switch opts.Field {
		case SortByCreated:
			less = notes[i].CreatedAt < notes[j].CreatedAt
		case SortByText:
			less = strings.ToLower(notes[i].Text) < strings.ToLower(notes[j].Text)
		default:
			less = notes[i].CreatedAt < notes[j].CreatedAt
		}

		if opts.Order == SortDesc {
			return !less
		}
		return less
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created", "time", "c", "t":
		return SortByCreated
	case "text", "x":
		return SortByText
	default:
		return SortByCreated
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc
	case "desc", "descending", "d":
		return SortDesc
	default:
		return SortAsc
	}
}
