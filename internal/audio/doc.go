// Package audio provides event sound playback for note creation and
// deletion. It uses the beep library to play WAV, OGG, MP3, and FLAC
// files with volume control.
package audio
