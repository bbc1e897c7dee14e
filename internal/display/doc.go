// Package display manages GTK4/libadwaita windows for floating notes.
// It builds the frameless layer-shell note windows, the single-line
// input prompt, and the delete confirmation popover, translating
// pointer and keyboard events into gesture inputs and applying the
// resulting actions.
package display
