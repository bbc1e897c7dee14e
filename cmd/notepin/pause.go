package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/core"
	"github.com/jmylchreest/notepin/internal/store"
)

var pauseOpts struct {
	forDur string
	off    bool
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the global hotkey",
	Long: `Pause the global hotkey so it stops opening the prompt.

The pause is written to the shared state file and the daemon picks it
up on the next hotkey press, so this works whether or not a daemon is
currently running. Notes stay on screen and the CLI keeps working.

Examples:
  # Pause until resumed
  notepin pause

  # Pause for half an hour
  notepin pause --for 30m

  # Resume
  notepin pause --off`,
	RunE: runPause,
}

func init() {
	rootCmd.AddCommand(pauseCmd)

	pauseCmd.Flags().StringVar(&pauseOpts.forDur, "for", "",
		"Pause for a duration (e.g., 30m, 2h, 1d); omit to pause until resumed")
	pauseCmd.Flags().BoolVar(&pauseOpts.off, "off", false,
		"Resume the hotkey")
}

func runPause(cmd *cobra.Command, args []string) error {
	state, err := store.LoadPauseState(globalOpts.stateFile)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if pauseOpts.off {
		state.SetPaused(false, time.Time{}, "cli")
		if err := store.SavePauseState(globalOpts.stateFile, state); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
		fmt.Println("Hotkey: active")
		return nil
	}

	var until time.Time
	if pauseOpts.forDur != "" {
		d, err := core.ParseDuration(pauseOpts.forDur)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("pause duration must be positive")
		}
		until = time.Now().Add(d)
	}

	state.SetPaused(true, until, "cli")
	if err := store.SavePauseState(globalOpts.stateFile, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if until.IsZero() {
		fmt.Println("Hotkey: paused until resumed")
	} else {
		fmt.Printf("Hotkey: paused until %s (%s)\n",
			until.Format(time.Kitchen), humanize.Time(until))
	}
	return nil
}
