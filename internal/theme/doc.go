// Package theme provides CSS theming for note and prompt windows.
// Themes resolve from the user theme directory (raw CSS, or TOML
// definitions compiled to CSS) with embedded fallbacks.
package theme
