package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id|index> <text...>",
	Short: "Replace a note's text",
	Long: `Replace the text of an existing note.

The note is addressed by ID or by 1-based index into the current list
order. The remaining arguments are joined with spaces to form the new
text.

Examples:
  # Rewrite the first note
  notepin edit 1 buy oat milk instead

  # Rewrite by ID
  notepin edit 01HZ3X2J5YFMK2V3P4Q6R7S8T9 call the dentist`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("note text cannot be empty")
	}

	notes, err := client.ListNotes()
	if err != nil {
		return err
	}

	n := resolveRef(notes, args[0])
	if n == nil {
		return fmt.Errorf("no such note: %s", args[0])
	}

	ok, err := client.SetNoteText(n.ID, text)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("note no longer exists: %s", n.ID)
	}

	fmt.Printf("Updated note %s\n", n.ID)
	return nil
}
