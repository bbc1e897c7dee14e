package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	data := []byte(`[note]
background = "rgba(44, 62, 80, 0.35)"
foreground = "#ffffff"
border_color = "#3498db"
border_width = 1
corner_radius = 6
padding = 12
font_family = "Arial"

[confirm]
background = "#2c3e50"
`)

	spec, err := ParseSpec(data)
	require.NoError(t, err)

	assert.Equal(t, "#ffffff", spec.Note.Foreground)
	assert.Equal(t, 1, spec.Note.BorderWidth)
	assert.Equal(t, 6, spec.Note.CornerRadius)
	assert.Equal(t, "#2c3e50", spec.Confirm.Background)
	assert.Empty(t, spec.Prompt.Background)
}

func TestParseSpec_Invalid(t *testing.T) {
	_, err := ParseSpec([]byte("[note\nbroken ="))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse theme definition")
}

func TestSpecCompile(t *testing.T) {
	spec := &Spec{
		Note: Surface{
			Background:   "#222222",
			Foreground:   "#eeeeee",
			BorderColor:  "#3498db",
			BorderWidth:  2,
			CornerRadius: 6,
			Padding:      10,
			FontFamily:   "Arial",
		},
		Prompt: Surface{
			Background: "#2c3e50",
		},
	}

	css := spec.Compile()

	assert.Contains(t, css, ".notepin-note {")
	assert.Contains(t, css, "background-color: #222222;")
	assert.Contains(t, css, "color: #eeeeee;")
	assert.Contains(t, css, "border: 2px solid #3498db;")
	assert.Contains(t, css, "border-radius: 6px;")
	assert.Contains(t, css, "padding: 10px;")
	assert.Contains(t, css, `font-family: "Arial";`)

	// Label and entry inherit the note foreground.
	assert.Contains(t, css, ".notepin-note-label { color: #eeeeee; }")
	assert.Contains(t, css, ".notepin-note-entry { color: #eeeeee; }")

	assert.Contains(t, css, ".notepin-prompt {")
	assert.Contains(t, css, "background-color: #2c3e50;")

	// Nothing set for the confirm surface, so no rule at all.
	assert.NotContains(t, css, ".notepin-confirm")
}

func TestSpecCompile_BorderWithoutColor(t *testing.T) {
	spec := &Spec{Note: Surface{BorderWidth: 1}}
	css := spec.Compile()
	assert.Contains(t, css, "border: 1px solid currentColor;")
}

func TestSpecCompile_Empty(t *testing.T) {
	spec := &Spec{}
	assert.Empty(t, spec.Compile())
}
