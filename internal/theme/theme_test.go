package theme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.notepin-note { color: red; }`
	result := ProcessImports(css, "", nil)
	assert.Equal(t, css, result)
}

func TestProcessImports_FileImport(t *testing.T) {
	tmpDir := t.TempDir()

	partial := `:root { --accent: #ff0000; }`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_custom.css"), []byte(partial), 0644))

	mainCSS := `@import "_custom.css";
.notepin-note { color: var(--accent); }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "--accent: #ff0000")
	assert.Contains(t, result, ".notepin-note")
}

func TestProcessImports_NestedImports(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_grandchild.css"),
		[]byte(`.grandchild { color: blue; }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_child.css"),
		[]byte("@import \"_grandchild.css\";\n.child { color: green; }"), 0644))

	result := ProcessImports(`@import "_child.css";`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".child")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_a.css"),
		[]byte("@import \"_b.css\";\n.a { color: red; }"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_b.css"),
		[]byte("@import \"_a.css\";\n.b { color: blue; }"), 0644))

	result := ProcessImports(`@import "_a.css";`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _a.css */")
	assert.Contains(t, result, "/* imported: _b.css */")
	assert.Contains(t, result, "/* circular import prevented: _a.css */")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nonexistent.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nonexistent.css")
}

func TestProcessImports_FallbackToEmbeddedTheme(t *testing.T) {
	result := ProcessImports(`@import "default.css";`, "/nonexistent/path", nil)

	assert.Contains(t, result, "/* imported (embedded): default.css */")
	assert.Contains(t, result, ".notepin-note")
}

func TestProcessImports_FallbackToEmbeddedPartial(t *testing.T) {
	result := ProcessImports(`@import "_base.css";`, "/nonexistent/path", nil)

	assert.Contains(t, result, "/* imported (embedded): _base.css */")
	assert.Contains(t, result, "border-radius")
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url('file.css');`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "_partial.css"`, "_partial.css"},
		{`@import   "spaced.css"  ;`, "spaced.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2)
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestNewTheme_CSS(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_colors.css"),
		[]byte(`:root { --accent: #ff0000; }`), 0644))

	themePath := filepath.Join(tmpDir, "custom.css")
	require.NoError(t, os.WriteFile(themePath,
		[]byte("@import \"_colors.css\";\n.notepin-note { color: var(--accent); }"), 0644))

	theme, err := NewTheme("custom", themePath)
	require.NoError(t, err)

	assert.Equal(t, "custom", theme.Name)
	assert.Contains(t, theme.CSS, "/* imported: _colors.css */")
	assert.Contains(t, theme.CSS, "--accent: #ff0000")
}

func TestNewTheme_TOML(t *testing.T) {
	tmpDir := t.TempDir()

	themePath := filepath.Join(tmpDir, "custom.toml")
	content := `[note]
background = "#222222"
foreground = "#eeeeee"
corner_radius = 4

[prompt]
background = "#333333"
`
	require.NoError(t, os.WriteFile(themePath, []byte(content), 0644))

	theme, err := NewTheme("custom", themePath)
	require.NoError(t, err)

	assert.Contains(t, theme.CSS, ".notepin-note {")
	assert.Contains(t, theme.CSS, "background-color: #222222;")
	assert.Contains(t, theme.CSS, "border-radius: 4px;")
	assert.Contains(t, theme.CSS, ".notepin-prompt {")
}

func TestNewTheme_UnsupportedExtension(t *testing.T) {
	tmpDir := t.TempDir()
	themePath := filepath.Join(tmpDir, "custom.yaml")
	require.NoError(t, os.WriteFile(themePath, []byte("note: {}"), 0644))

	_, err := NewTheme("custom", themePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported theme format")
}

func TestNewTheme_BadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	themePath := filepath.Join(tmpDir, "broken.toml")
	require.NoError(t, os.WriteFile(themePath, []byte("[note\nbackground"), 0644))

	_, err := NewTheme("broken", themePath)
	require.Error(t, err)
}

func TestTheme_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	themePath := filepath.Join(tmpDir, "test.css")
	require.NoError(t, os.WriteFile(themePath, []byte(`.notepin-note { color: red; }`), 0644))

	theme, err := NewTheme("test", themePath)
	require.NoError(t, err)
	assert.Contains(t, theme.CSS, "color: red")

	// Unchanged file: no reload.
	changed, err := theme.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(themePath, []byte(`.notepin-note { color: blue; }`), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(themePath, future, future))

	changed, err = theme.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, theme.CSS, "color: blue")
}

func TestDefaultTheme(t *testing.T) {
	theme := NewDefaultTheme()

	assert.Equal(t, DefaultThemeName, theme.Name)
	assert.True(t, theme.IsDefault)
	assert.Empty(t, theme.Path)
	assert.Contains(t, theme.CSS, ".notepin-note")
	// Partials referenced by the default theme resolve from the embed.
	assert.NotContains(t, theme.CSS, "import failed")
}
