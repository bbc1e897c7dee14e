package theme

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Spec is a declarative theme written in TOML. It compiles to the CSS
// the note and prompt windows consume, so simple themes need no
// hand-written CSS.
type Spec struct {
	Note    Surface `toml:"note"`
	Prompt  Surface `toml:"prompt"`
	Confirm Surface `toml:"confirm"`
}

// Surface styles one window class. Zero-valued fields are omitted from
// the compiled CSS.
type Surface struct {
	Background   string `toml:"background"`
	Foreground   string `toml:"foreground"`
	BorderColor  string `toml:"border_color"`
	BorderWidth  int    `toml:"border_width"`
	CornerRadius int    `toml:"corner_radius"`
	Padding      int    `toml:"padding"`
	FontFamily   string `toml:"font_family"`
}

// ParseSpec parses a TOML theme definition.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse theme definition: %w", err)
	}
	return &spec, nil
}

// Compile renders the spec as CSS using the notepin style classes.
func (s *Spec) Compile() string {
	var b strings.Builder

	writeSurface(&b, ".notepin-note", s.Note)
	// The label and entry inherit the note foreground.
	if s.Note.Foreground != "" {
		fmt.Fprintf(&b, ".notepin-note-label { color: %s; }\n\n", s.Note.Foreground)
		fmt.Fprintf(&b, ".notepin-note-entry { color: %s; }\n\n", s.Note.Foreground)
	}
	writeSurface(&b, ".notepin-prompt", s.Prompt)
	writeSurface(&b, ".notepin-confirm", s.Confirm)

	if b.Len() == 0 {
		return ""
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeSurface emits one CSS rule for the set fields of a surface.
func writeSurface(b *strings.Builder, selector string, s Surface) {
	var props []string
	if s.Background != "" {
		props = append(props, fmt.Sprintf("background-color: %s;", s.Background))
	}
	if s.Foreground != "" {
		props = append(props, fmt.Sprintf("color: %s;", s.Foreground))
	}
	if s.BorderWidth > 0 {
		color := s.BorderColor
		if color == "" {
			color = "currentColor"
		}
		props = append(props, fmt.Sprintf("border: %dpx solid %s;", s.BorderWidth, color))
	}
	if s.CornerRadius > 0 {
		props = append(props, fmt.Sprintf("border-radius: %dpx;", s.CornerRadius))
	}
	if s.Padding > 0 {
		props = append(props, fmt.Sprintf("padding: %dpx;", s.Padding))
	}
	if s.FontFamily != "" {
		props = append(props, fmt.Sprintf("font-family: %q;", s.FontFamily))
	}
	if len(props) == 0 {
		return
	}

	b.WriteString(selector + " {\n")
	for _, p := range props {
		b.WriteString("  " + p + "\n")
	}
	b.WriteString("}\n\n")
}
