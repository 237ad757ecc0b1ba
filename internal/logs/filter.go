package logs

import (
	"encoding/json"
	"strings"
)

// A console subject is followed by the stage in parentheses or, without a
// stage, directly by the message separator.
const (
	stageOpen        = " ("
	messageSeparator = " \u2013 "
)

// RunFilter keeps the lines logged for one run. Console records open with a
// "Run <id>" subject holding the first eight characters of the run ID and are
// followed by indented attribute lines; JSON records carry a run_id field.
type RunFilter struct {
	runID   string
	short   string
	keeping bool
}

// NewRunFilter returns a filter for runID. An empty runID keeps every line.
func NewRunFilter(runID string) *RunFilter {
	runID = strings.TrimSpace(runID)
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return &RunFilter{runID: runID, short: short}
}

// Keep reports whether line belongs to the filtered run. Lines must be passed
// in file order so attribute lines follow their record.
func (f *RunFilter) Keep(line string) bool {
	if f.runID == "" {
		return true
	}
	if strings.HasPrefix(line, "    ") {
		return f.keeping
	}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var record struct {
			RunID string `json:"run_id"`
		}
		f.keeping = json.Unmarshal([]byte(trimmed), &record) == nil && record.RunID == f.runID
		return f.keeping
	}
	subject := " Run " + f.short
	f.keeping = strings.Contains(line, subject+stageOpen) || strings.Contains(line, subject+messageSeparator)
	return f.keeping
}

// FilterRun applies a RunFilter to lines.
func FilterRun(lines []string, runID string) []string {
	filter := NewRunFilter(runID)
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if filter.Keep(line) {
			kept = append(kept, line)
		}
	}
	return kept
}
