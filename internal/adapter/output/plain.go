package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/notepin/internal/model"
)

// PlainFormatter formats notes as human-readable plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes notes as plain text, one block per note.
func (f *PlainFormatter) Format(w io.Writer, notes []model.Note) error {
	for i, n := range notes {
		if err := f.formatNote(w, i+1, &n); err != nil {
			return err
		}
	}
	return nil
}

// formatNote formats a single note.
func (f *PlainFormatter) formatNote(w io.Writer, index int, n *model.Note) error {
	if f.template != nil {
		data := templateData{
			Index:        index,
			Note:         n,
			RelativeTime: relativeTime(n.CreatedAt),
		}
		return f.template.Execute(w, data)
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	text := n.Text
	if f.opts.TextMaxLen > 0 {
		text = n.TextTruncated(f.opts.TextMaxLen)
	}
	sb.WriteString(text)

	if f.opts.ShowTime {
		sb.WriteString(fmt.Sprintf(" (%s)", n.RelativeTime()))
	}

	sb.WriteString("\n")

	if f.opts.ShowGeometry {
		sb.WriteString(fmt.Sprintf("    %s  %dx%d at (%d,%d)\n",
			n.ID, n.Width, n.Height, n.X, n.Y))
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
