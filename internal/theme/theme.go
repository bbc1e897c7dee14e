package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/notepin/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or
// @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved theme: compiled CSS plus file metadata for hot
// reload.
type Theme struct {
	Name      string    // Theme name (without extension)
	Path      string    // Full path to the source file (empty for embedded)
	CSS       string    // Compiled CSS content
	ModTime   time.Time // Last modification time of the source file
	IsDefault bool      // True for the embedded default theme
}

// NewTheme loads a theme from a file. A .css source has its @import
// statements inlined; a .toml source is parsed as a Spec and compiled.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	css, err := compileSource(path, data)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     css,
		ModTime: info.ModTime(),
	}, nil
}

// compileSource turns raw theme file content into CSS.
func compileSource(path string, data []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".css":
		return ProcessImports(string(data), filepath.Dir(path), nil), nil
	case ".toml":
		spec, err := ParseSpec(data)
		if err != nil {
			return "", err
		}
		return spec.Compile(), nil
	default:
		return "", fmt.Errorf("unsupported theme format: %s", ext)
	}
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:      DefaultThemeName,
		CSS:       ProcessImports(css, "", nil),
		IsDefault: true,
	}
}

// Reload re-reads the theme from disk when its modification time
// advanced. Returns true if the compiled CSS changed.
func (t *Theme) Reload() (bool, error) {
	if t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	css, err := compileSource(t.Path, data)
	if err != nil {
		return false, err
	}

	changed := css != t.CSS
	t.CSS = css
	t.ModTime = info.ModTime()
	return changed, nil
}

// ProcessImports resolves and inlines @import statements relative to
// baseDir. Missing files fall back to embedded partials and themes.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embedded, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embedded
				}
			}
			themeName := strings.TrimSuffix(baseName, ".css")
			if embedded, found := GetEmbeddedTheme(themeName); found {
				return "/* imported (embedded): " + importPath + " */\n" + embedded
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(imported), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}

// Info provides basic theme information for listing.
type Info struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ListAvailableThemes lists bundled themes plus user themes (.css and
// .toml) from the theme directory. A user theme with a bundled name
// does not shadow the bundled entry here; resolution order is the
// loader's concern.
func ListAvailableThemes() ([]Info, error) {
	seen := make(map[string]bool)
	var themes []Info

	for _, name := range ListEmbeddedThemes() {
		if seen[name] {
			continue
		}
		seen[name] = true
		themes = append(themes, Info{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	entries, err := os.ReadDir(config.ThemesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".css" && ext != ".toml" {
			continue
		}
		themeName := strings.TrimSuffix(name, ext)
		if seen[themeName] {
			continue
		}
		seen[themeName] = true
		themes = append(themes, Info{
			Name: themeName,
			Path: filepath.Join(config.ThemesDir(), name),
		})
	}

	return themes, nil
}
