package main

import (
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Open the note input prompt",
	Long: `Ask the daemon to open its input prompt, the same dialog the
global hotkey opens. Useful for binding in a compositor that handles
hotkeys itself.`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return client.ShowPrompt()
}
