package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/notepin/internal/model"
)

// IDsFormatter outputs just the note IDs, one per line.
// Useful for piping to other commands (e.g., notepin rm --stdin).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes note IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, notes []model.Note) error {
	for _, n := range notes {
		if _, err := fmt.Fprintln(w, n.ID); err != nil {
			return err
		}
	}
	return nil
}
