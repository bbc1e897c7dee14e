package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notepin/internal/dbus"
	"github.com/jmylchreest/notepin/internal/store"
)

var statusOpts struct {
	format string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show whether the daemon is running and, if so, its version,
uptime, note count, and hotkey state.

Exits non-zero when no daemon is running, so it doubles as a health
check in scripts:

  notepin status --format json | jq .notes`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "plain",
		"Output format (plain, json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		if errors.Is(err, dbus.ErrDaemonNotRunning) {
			if statusOpts.format == "json" {
				_ = json.NewEncoder(os.Stdout).Encode(map[string]any{"running": false})
			} else {
				fmt.Println("Daemon: not running")
			}
			os.Exit(1)
		}
		return err
	}

	s, err := client.Status()
	if err != nil {
		return err
	}

	if statusOpts.format == "json" {
		return json.NewEncoder(os.Stdout).Encode(s)
	}

	hotkey := "active"
	if s.Paused {
		hotkey = "paused"
		// The daemon only reports the boolean; the deadline of a timed
		// pause lives in the shared state file.
		if state, err := store.LoadPauseState(globalOpts.stateFile); err == nil {
			if t := state.UntilTime(); !t.IsZero() {
				hotkey = fmt.Sprintf("paused until %s", t.Format(time.Kitchen))
			}
		}
	}

	fmt.Println("Daemon: running")
	fmt.Printf("  Version: %s\n", s.Version)
	fmt.Printf("  PID: %d\n", s.PID)
	fmt.Printf("  Uptime: %s\n", (time.Duration(s.UptimeSeconds) * time.Second).String())
	fmt.Printf("  Notes: %d\n", s.Notes)
	fmt.Printf("  Hotkey: %s\n", hotkey)
	return nil
}
