// Package model defines the core data structures for notepin.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Default geometry for a freshly created note. The font scaling in the
// gesture package uses the same dimensions as its reference area.
const (
	DefaultWidth  = 500
	DefaultHeight = 200
)

// Note represents a single floating note on screen.
// This is the normalized record tracked by the daemon's arena and
// returned by the control interface and all output formatters.
type Note struct {
	ID        string  `json:"id" yaml:"id"`
	Text      string  `json:"text" yaml:"text"`
	X         int     `json:"x" yaml:"x"`
	Y         int     `json:"y" yaml:"y"`
	Width     int     `json:"width" yaml:"width"`
	Height    int     `json:"height" yaml:"height"`
	Opacity   float64 `json:"opacity" yaml:"opacity"`
	FontSize  int     `json:"font_size" yaml:"font_size"`
	Editing   bool    `json:"editing,omitempty" yaml:"editing,omitempty"`
	CreatedAt int64   `json:"created_at" yaml:"created_at"`
}

// Validation errors.
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrInvalidID        = errors.New("id must be a valid ULID")
	ErrEmptyText        = errors.New("text cannot be empty")
	ErrInvalidOpacity   = errors.New("opacity must be between 0 and 1")
	ErrInvalidSize      = errors.New("width and height must be positive")
	ErrInvalidCreatedAt = errors.New("created_at must be greater than 0")
)

// NewNote creates a new Note with a generated ULID, default geometry,
// and the supplied text. Text is trimmed; empty text is rejected.
func NewNote(text string) (*Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Note{
		ID:        id.String(),
		Text:      text,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Opacity:   1.0,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// ValidID reports whether s parses as a canonical ULID.
func ValidID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// Validate checks that the note has all required fields.
func (n *Note) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if !ValidID(n.ID) {
		return ErrInvalidID
	}
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyText
	}
	if n.Opacity < 0 || n.Opacity > 1 {
		return ErrInvalidOpacity
	}
	if n.Width <= 0 || n.Height <= 0 {
		return ErrInvalidSize
	}
	if n.CreatedAt <= 0 {
		return ErrInvalidCreatedAt
	}
	return nil
}

// CreatedTime returns the creation timestamp as a time.Time.
func (n *Note) CreatedTime() time.Time {
	return time.Unix(n.CreatedAt, 0)
}

// Age returns how long ago the note was created.
func (n *Note) Age() time.Duration {
	return time.Since(n.CreatedTime())
}

// RelativeTime returns a human-readable relative creation time.
// Examples: "just now", "5m ago", "2h ago", "1d ago".
func (n *Note) RelativeTime() string {
	diff := time.Now().Unix() - n.CreatedAt

	if diff < 0 {
		return "in the future"
	}
	if diff < 60 {
		return "just now"
	}
	if diff < 3600 {
		return fmt.Sprintf("%dm ago", diff/60)
	}
	if diff < 86400 {
		return fmt.Sprintf("%dh ago", diff/3600)
	}
	return fmt.Sprintf("%dd ago", diff/86400)
}

// TextTruncated returns the text truncated to maxLen characters.
// Whitespace runs and newlines are collapsed to single spaces; longer
// text is cut and "..." appended.
func (n *Note) TextTruncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	text := strings.Join(strings.Fields(n.Text), " ")

	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// Clone creates a copy of the note.
func (n *Note) Clone() *Note {
	clone := *n
	return &clone
}
