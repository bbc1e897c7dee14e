package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI browser",
	Long: `Launch the interactive terminal user interface for browsing notes.

The TUI provides:
  - Scrollable list of live notes
  - Search/filter functionality
  - Inline editing
  - Instant updates via daemon signals

Key bindings:
  j/k, ↑/↓    Navigate list
  e           Edit note text
  d           Delete note
  /           Filter notes
  r           Refresh
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return tui.Run(client, logger)
}
