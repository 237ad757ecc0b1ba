// Package shotlog parses grading-tool shot logs.
//
// Each non-blank line holds a storage path followed by frame numbers. Tokens
// after the path that are not plain decimal integers (for example "<err>" or
// "<null>") are ignored.
package shotlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"framefix/internal/frames"
)

// maxLineBytes bounds a single log line.
const maxLineBytes = 1 << 20

// ErrMalformed matches every parse failure returned by this package.
var ErrMalformed = errors.New("malformed shot log")

// MalformedError reports a line that could not be tokenized.
type MalformedError struct {
	Line int
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed shot log: line %d: %v", e.Line, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// Entry is one log line: a path and its compressed frame ranges.
type Entry struct {
	Path   string
	Ranges []frames.Range
}

// FrameCount returns the number of frames referenced by the entry.
func (e Entry) FrameCount() int {
	total := 0
	for _, r := range e.Ranges {
		total += r.Len()
	}
	return total
}

// Paths returns the path of every entry, in order.
func Paths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Path
	}
	return paths
}

// Load reads and parses the shot log at path.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shot log: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Parse decodes shot-log text.
func Parse(text string) ([]Entry, error) {
	return Read(strings.NewReader(text))
}

// Read decodes a shot log from r, one entry per non-blank line.
func Read(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		entries = append(entries, parseTokens(tokens))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &MalformedError{Line: lineNo + 1, Err: err}
		}
		return nil, fmt.Errorf("read shot log: %w", err)
	}
	return entries, nil
}

func parseTokens(tokens []string) Entry {
	numbers := make([]int, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		if n, ok := frames.IsFrameToken(token); ok {
			numbers = append(numbers, n)
		}
	}
	return Entry{Path: tokens[0], Ranges: frames.Compress(numbers)}
}
