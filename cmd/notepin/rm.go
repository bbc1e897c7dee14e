package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/adapter/input"
	"github.com/jmylchreest/notepin/internal/core"
	"github.com/jmylchreest/notepin/internal/model"
)

var rmOpts struct {
	stdin bool
}

var rmCmd = &cobra.Command{
	Use:   "rm [id|index...]",
	Short: "Remove notes",
	Long: `Remove notes by ID or by 1-based index into the current list order.

References can be provided as positional arguments or via stdin
(--stdin). Stdin lines may be bare IDs, bare indexes, or dmenu-format
lines from "notepin list --format dmenu"; the leading index field is
used.

Examples:
  # Remove the second note in list order
  notepin rm 2

  # Remove a note by ID
  notepin rm 01HZ3X2J5YFMK2V3P4Q6R7S8T9

  # Remove the selection from a picker
  notepin list --format dmenu | fuzzel -d | notepin rm --stdin`,
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)

	rmCmd.Flags().BoolVar(&rmOpts.stdin, "stdin", false,
		"Read IDs or indexes from stdin, one per line")
}

func runRm(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	refs := args
	if rmOpts.stdin {
		lines, err := input.NewStdinReader().ReadLines()
		if err != nil {
			return err
		}
		refs = append(refs, lines...)
	}

	if len(refs) == 0 {
		return fmt.Errorf("no note references provided")
	}

	// Indexes resolve against the unfiltered creation order, the same
	// order list prints by default.
	notes, err := client.ListNotes()
	if err != nil {
		return err
	}

	ids := resolveRefs(notes, refs)
	if len(ids) == 0 {
		return fmt.Errorf("no matching notes")
	}

	var removed, failed int
	for _, id := range ids {
		ok, err := client.RemoveNote(id)
		switch {
		case err != nil:
			logger.Warn("failed to remove note", "id", id, "error", err)
			failed++
		case !ok:
			logger.Warn("note not found", "id", id)
			failed++
		default:
			removed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Removed %d note(s), %d failed\n", removed, failed)
	} else {
		fmt.Printf("Removed %d note(s)\n", removed)
	}

	return nil
}

// resolveRefs maps ID or index references to note IDs, dropping
// duplicates and references that match nothing.
func resolveRefs(notes []model.Note, refs []string) []string {
	seen := make(map[string]struct{})
	var ids []string

	for _, ref := range refs {
		n := resolveRef(notes, ref)
		if n == nil {
			logger.Warn("no such note", "ref", ref)
			continue
		}
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		ids = append(ids, n.ID)
	}

	return ids
}

// resolveRef finds a note by ID or 1-based index. Dmenu-format lines
// ("2 | 5m | buy milk") resolve through their leading index field.
func resolveRef(notes []model.Note, ref string) *model.Note {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	// Dmenu lines carry the index as the first field.
	if strings.Contains(ref, "|") {
		ref = strings.TrimSpace(strings.SplitN(ref, "|", 2)[0])
	}

	if idx, err := strconv.Atoi(ref); err == nil {
		return core.LookupByIndex(notes, idx)
	}
	return core.LookupByID(notes, ref)
}
