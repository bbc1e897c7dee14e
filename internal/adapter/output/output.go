// Package output provides output formatters for note listings.
package output

import (
	"io"

	"github.com/jmylchreest/notepin/internal/model"
)

// Formatter formats notes for output.
type Formatter interface {
	// Format writes formatted notes to the writer.
	Format(w io.Writer, notes []model.Note) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
	FormatDmenu FormatType = "dmenu"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template     string // Custom template for dmenu/plain format
	ShowIndex    bool   // Show 1-based index prefix
	ShowTime     bool   // Show relative creation time
	ShowGeometry bool   // Show window geometry
	TextMaxLen   int    // Maximum text length (0 = unlimited)
	Separator    string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for list output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		TextMaxLen: 80,
		Separator:  " | ",
	}
}
