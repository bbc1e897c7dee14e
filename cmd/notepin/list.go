package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/adapter/output"
	"github.com/jmylchreest/notepin/internal/core"
	"github.com/jmylchreest/notepin/internal/model"
)

var listOpts struct {
	// Filter options
	since  string
	search string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List live notes",
	Long: `List the notes currently on screen.

The default plain output shows a 1-based index, the creation time, and
the note text. The index is what rm and edit accept in place of an ID.

Examples:
  # List all notes
  notepin list

  # Notes from the last hour containing "milk"
  notepin list --since 1h --search milk

  # Feed a picker and remove the selection
  notepin list --format dmenu | fuzzel -d | notepin rm --stdin

  # IDs only, newest first
  notepin list --format ids --order desc`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	// Filter flags
	listCmd.Flags().StringVar(&listOpts.since, "since", "",
		"Show notes created in the last duration (e.g., 30m, 48h, 7d)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in note text")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of notes to show (0=unlimited)")

	// Sort flags
	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "created",
		"Sort by field (created, text)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	// Output flags
	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, ids, dmenu)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for dmenu output")
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	notes, err := client.ListNotes()
	if err != nil {
		return err
	}

	notes = applyFilters(notes)
	applySort(notes)

	// The limit applies after sorting so it keeps the head of the output.
	if listOpts.limit > 0 && len(notes) > listOpts.limit {
		notes = notes[:listOpts.limit]
	}

	return outputNotes(notes)
}

// applyFilters applies filter options to notes.
func applyFilters(notes []model.Note) []model.Note {
	opts := core.FilterOptions{}

	// Parse since duration
	if listOpts.since != "" {
		d, err := core.ParseDuration(listOpts.since)
		if err != nil {
			logger.Warn("invalid since duration", "value", listOpts.since, "error", err)
		} else {
			opts.Since = d
		}
	}

	notes = core.Filter(notes, opts)

	// Apply search if specified
	if listOpts.search != "" {
		notes = core.Search(notes, listOpts.search)
	}

	return notes
}

// applySort sorts notes based on options.
func applySort(notes []model.Note) {
	core.Sort(notes, core.SortOptions{
		Field: core.ParseSortField(listOpts.sortBy),
		Order: core.ParseSortOrder(listOpts.sortOrder),
	})
}

// outputNotes writes the note list.
func outputNotes(notes []model.Note) error {
	if len(notes) == 0 {
		logger.Debug("no notes to output")
		return nil
	}

	formatter := createFormatter()
	return formatter.Format(os.Stdout, notes)
}

// createFormatter creates the output formatter based on options.
func createFormatter() output.Formatter {
	var format output.FormatType
	switch strings.ToLower(listOpts.format) {
	case "json":
		format = output.FormatJSON
	case "yaml":
		format = output.FormatYAML
	case "ids":
		format = output.FormatIDs
	case "dmenu":
		format = output.FormatDmenu
	default:
		format = output.FormatPlain
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template

	return output.NewFormatter(format, opts)
}
