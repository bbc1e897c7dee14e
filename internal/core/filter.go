package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/notepin/internal/model"
)

// FilterOptions specifies criteria for filtering notes.
type FilterOptions struct {
	Since time.Duration // Keep notes newer than now-since (0=all)
	Limit int           // Maximum results (0=unlimited)
}

// Filter filters notes based on the provided options.
func Filter(notes []model.Note, opts FilterOptions) []model.Note {
	now := time.Now()
	result := make([]model.Note, 0, len(notes))

	for _, n := range notes {
		if opts.Since > 0 {
			cutoff := now.Add(-opts.Since)
			if n.CreatedTime().Before(cutoff) {
				continue
			}
		}
		result = append(result, n)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 30m, 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter (all time)
	if s == "0" || s == "" {
		return 0, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	// Standard Go duration parsing
	return time.ParseDuration(s)
}
