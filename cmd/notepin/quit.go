package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the running daemon",
	Long: `Ask the daemon to shut down cleanly. Its notes disappear with
it; they are not persisted.`,
	RunE: runQuit,
}

func init() {
	rootCmd.AddCommand(quitCmd)
}

func runQuit(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.Quit(); err != nil {
		return err
	}
	fmt.Println("Daemon stopping")
	return nil
}
