package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearOpts struct {
	force bool
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all notes",
	Long: `Remove every note from the desktop.

Asks for confirmation unless --force is given.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearOpts.force, "force", "f", false,
		"Remove without asking for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	notes, err := client.ListNotes()
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		fmt.Println("No notes to remove")
		return nil
	}

	if !clearOpts.force {
		fmt.Printf("Remove %d note(s)? [y/N]: ", len(notes))
		// A closed stdin reads as an empty answer and aborts.
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	removed := 0
	for _, n := range notes {
		ok, err := client.RemoveNote(n.ID)
		if err != nil {
			logger.Warn("failed to remove note", "id", n.ID, "error", err)
			continue
		}
		if ok {
			removed++
		}
	}

	fmt.Printf("Removed %d note(s)\n", removed)
	return nil
}
