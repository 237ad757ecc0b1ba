// Package workorder parses vendor work-order documents.
//
// The document layout is positional: a header line whose third token is the
// title, an ignored line, Producer/Operator/Job key-value lines, another
// ignored line, one location per line up to a "Notes:" sentinel, and free-text
// notes for the remainder.
package workorder

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	notesSentinel   = "Notes:"
	locationCaption = "Location:"
	fieldSeparator  = ": "
)

// ErrMalformed matches every parse failure returned by this package.
var ErrMalformed = errors.New("malformed work order")

// MalformedError describes where parsing stopped.
type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed work order: line %d: %s", e.Line, e.Reason)
	}
	return "malformed work order: " + e.Reason
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// WorkOrder is one parsed vendor document.
type WorkOrder struct {
	Title     string
	Producer  string
	Operator  string
	Job       string
	Locations []string
	Notes     string
}

// Fields is the flat metadata export of a work order, without locations.
type Fields struct {
	Title    string `json:"title"`
	Producer string `json:"producer"`
	Operator string `json:"operator"`
	Job      string `json:"job"`
	Notes    string `json:"notes"`
}

// Fields returns the single-value metadata of the work order.
func (w WorkOrder) Fields() Fields {
	return Fields{
		Title:    w.Title,
		Producer: w.Producer,
		Operator: w.Operator,
		Job:      w.Job,
		Notes:    w.Notes,
	}
}

// Load reads and parses the work order at path.
func Load(path string) (WorkOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorkOrder{}, fmt.Errorf("read work order: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a work-order document.
func Parse(text string) (WorkOrder, error) {
	lines := splitLines(text)
	cursor := 0
	next := func() (string, int, bool) {
		if cursor >= len(lines) {
			return "", cursor + 1, false
		}
		line := lines[cursor]
		cursor++
		return line, cursor, true
	}

	var wo WorkOrder

	header, lineNo, ok := next()
	if !ok {
		return WorkOrder{}, &MalformedError{Line: lineNo, Reason: "missing header line"}
	}
	tokens := strings.Fields(header)
	if len(tokens) < 3 {
		return WorkOrder{}, &MalformedError{Line: lineNo, Reason: "header has no title token"}
	}
	wo.Title = tokens[2]

	if _, lineNo, ok = next(); !ok {
		return WorkOrder{}, &MalformedError{Line: lineNo, Reason: "document ends after header"}
	}

	for _, field := range []struct {
		key string
		dst *string
	}{
		{"Producer", &wo.Producer},
		{"Operator", &wo.Operator},
		{"Job", &wo.Job},
	} {
		line, lineNo, ok := next()
		if !ok {
			return WorkOrder{}, &MalformedError{Line: lineNo, Reason: "missing " + field.key + " line"}
		}
		value, err := parseField(line, field.key)
		if err != nil {
			return WorkOrder{}, &MalformedError{Line: lineNo, Reason: err.Error()}
		}
		*field.dst = value
	}

	if _, lineNo, ok = next(); !ok {
		return WorkOrder{}, &MalformedError{Line: lineNo, Reason: "document ends before location block"}
	}

	sentinelSeen := false
	for {
		line, _, ok := next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == notesSentinel {
			sentinelSeen = true
			break
		}
		if trimmed == "" || trimmed == locationCaption {
			continue
		}
		wo.Locations = append(wo.Locations, trimmed)
	}
	if !sentinelSeen {
		return WorkOrder{}, &MalformedError{Reason: "missing " + notesSentinel + " terminator after location block"}
	}
	if len(wo.Locations) == 0 {
		return WorkOrder{}, &MalformedError{Reason: "location block is empty"}
	}

	wo.Notes = strings.TrimSpace(strings.Join(lines[cursor:], "\n"))
	return wo, nil
}

func parseField(line, key string) (string, error) {
	trimmed := strings.TrimSpace(line)
	name, value, found := strings.Cut(trimmed, fieldSeparator)
	if !found {
		return "", fmt.Errorf("expected %q line with %q separator, got %q", key, fieldSeparator, trimmed)
	}
	if strings.TrimSpace(name) != key {
		return "", fmt.Errorf("expected %q field, got %q", key, strings.TrimSpace(name))
	}
	return strings.TrimSpace(value), nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
