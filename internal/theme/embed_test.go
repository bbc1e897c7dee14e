package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme(t *testing.T) {
	css, found := GetEmbeddedTheme("default")
	require.True(t, found)
	assert.Contains(t, css, ".notepin-note")

	_, found = GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
}

func TestGetEmbeddedPartial(t *testing.T) {
	css, found := GetEmbeddedPartial("base")
	require.True(t, found)
	assert.Contains(t, css, "border-radius")

	// Underscore and extension are normalized.
	withPrefix, found := GetEmbeddedPartial("_base.css")
	require.True(t, found)
	assert.Equal(t, css, withPrefix)

	_, found = GetEmbeddedPartial("missing")
	assert.False(t, found)
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()

	assert.Contains(t, themes, "default")
	assert.Contains(t, themes, "light")

	// Partials are not themes.
	assert.NotContains(t, themes, "_base")
	assert.NotContains(t, themes, "base")
}

func TestIsEmbeddedTheme(t *testing.T) {
	assert.True(t, IsEmbeddedTheme("default"))
	assert.True(t, IsEmbeddedTheme("light"))
	assert.False(t, IsEmbeddedTheme("nope"))
}

func TestEmbeddedThemesHaveAllClasses(t *testing.T) {
	for _, name := range BundledThemes {
		css, found := GetEmbeddedTheme(name)
		require.True(t, found, "bundled theme %s missing", name)

		processed := ProcessImports(css, "", nil)
		for _, class := range []string{
			".notepin-note",
			".notepin-note-label",
			".notepin-note-entry",
			".notepin-prompt",
			".notepin-confirm",
		} {
			assert.Contains(t, processed, class, "theme %s missing %s", name, class)
		}
	}
}
