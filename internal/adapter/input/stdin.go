// Package input reads note text and note IDs from standard input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinReader reads whitespace-trimmed lines from standard input.
// Blank lines are skipped.
type StdinReader struct {
	reader io.Reader
}

// NewStdinReader creates a new StdinReader reading from os.Stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{reader: os.Stdin}
}

// NewStdinReaderWithReader creates a new StdinReader with a custom reader.
func NewStdinReaderWithReader(r io.Reader) *StdinReader {
	return &StdinReader{reader: r}
}

// ReadLines reads all input and returns the non-empty trimmed lines.
func (r *StdinReader) ReadLines() ([]string, error) {
	scanner := bufio.NewScanner(r.reader)
	const maxSize = 10 * 1024 * 1024 // 10MB max
	scanner.Buffer(make([]byte, 64*1024), maxSize)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}

	return lines, nil
}
