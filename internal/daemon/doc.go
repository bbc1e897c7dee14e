// Package daemon provides the main orchestration for notepind.
// It coordinates the note arena, window display, hotkey listener,
// tray icon, D-Bus control server, audio feedback, theme loader, and
// configuration hot-reload functionality.
package daemon
