package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/adapter/input"
)

var addOpts struct {
	stdin bool
}

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Create a new floating note",
	Long: `Create a new floating note on the desktop.

The text is taken from the arguments, joined with spaces. With --stdin,
each non-empty input line becomes its own note instead.

The ID of each created note is printed to stdout.

Examples:
  # Create a note from arguments
  notepin add buy milk

  # Create one note per line from a pipe
  cat todo.txt | notepin add --stdin`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().BoolVar(&addOpts.stdin, "stdin", false,
		"Read note text from stdin, one note per line")
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var texts []string
	if addOpts.stdin {
		lines, err := input.NewStdinReader().ReadLines()
		if err != nil {
			return err
		}
		texts = lines
	} else {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return fmt.Errorf("no note text provided")
	}

	for _, text := range texts {
		id, err := client.CreateNote(text)
		if err != nil {
			return err
		}
		fmt.Println(id)
	}

	return nil
}
