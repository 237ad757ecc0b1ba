// Package report filters matched shot entries and assembles the consolidated
// fix report.
//
// Assemble expands every matched entry into one Row per frame range and joins
// the rows with the work-order metadata. Matrix renders the result in the
// delimited-text layout shared by every report writer.
package report

import (
	"errors"
	"fmt"
	"strings"

	"framefix/internal/frames"
	"framefix/internal/matching"
	"framefix/internal/shotlog"
	"framefix/internal/workorder"
)

// ErrUnmatchedPath matches UnmatchedPathError.
var ErrUnmatchedPath = errors.New("unmatched shot path")

// UnmatchedPathError lists shot paths without a work-order location.
type UnmatchedPathError struct {
	Paths []string
}

func (e *UnmatchedPathError) Error() string {
	return fmt.Sprintf("%d unmatched shot path(s): %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

func (e *UnmatchedPathError) Is(target error) bool {
	return target == ErrUnmatchedPath
}

// UnmatchedPolicy selects how Assemble treats an entry without a mapping.
type UnmatchedPolicy int

const (
	// SkipUnmatched excludes the entry and records its path in Report.Unmatched.
	SkipUnmatched UnmatchedPolicy = iota
	// AbortOnUnmatched fails the assembly with an UnmatchedPathError.
	AbortOnUnmatched
)

// PolicyFromStrict maps the strict-matching switch to a policy.
func PolicyFromStrict(strict bool) UnmatchedPolicy {
	if strict {
		return AbortOnUnmatched
	}
	return SkipUnmatched
}

// Header carries the work-order metadata printed above the rows.
type Header struct {
	Title    string
	Producer string
	Operator string
	Job      string
	Notes    string
}

// Row is one (location, frame range) line of the report.
type Row struct {
	Location string
	Range    frames.Range
}

// Report is the assembled output of one run.
type Report struct {
	Header    Header
	Rows      []Row
	Unmatched []string
}

// Column labels of the delimited-text layout.
var (
	MetadataLabels = []string{"Producer", "Operator", "Job", "Notes"}
	ColumnLabels   = []string{"Location", "Frames to Fix", " ", " "}
)

// FilterWithinBound keeps entries whose every frame is <= maxFrame. An entry
// with any range past the bound is dropped whole, never trimmed.
func FilterWithinBound(entries []shotlog.Entry, maxFrame int) []shotlog.Entry {
	kept := make([]shotlog.Entry, 0, len(entries))
	for _, entry := range entries {
		if entryWithinBound(entry, maxFrame) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func entryWithinBound(entry shotlog.Entry, maxFrame int) bool {
	for _, r := range entry.Ranges {
		if !r.WithinBound(maxFrame) {
			return false
		}
	}
	return true
}

// Assemble joins entries with their matched locations. Rows follow entry order
// and, within an entry, range order. Identical rows are not merged.
func Assemble(wo workorder.WorkOrder, mapping matching.Mapping, entries []shotlog.Entry, policy UnmatchedPolicy) (Report, error) {
	rep := Report{
		Header: Header{
			Title:    wo.Title,
			Producer: wo.Producer,
			Operator: wo.Operator,
			Job:      wo.Job,
			Notes:    wo.Notes,
		},
	}

	seenUnmatched := make(map[string]struct{})
	for _, entry := range entries {
		location, ok := mapping.Lookup(entry.Path)
		if !ok {
			if _, dup := seenUnmatched[entry.Path]; !dup {
				seenUnmatched[entry.Path] = struct{}{}
				rep.Unmatched = append(rep.Unmatched, entry.Path)
			}
			continue
		}
		for _, r := range entry.Ranges {
			rep.Rows = append(rep.Rows, Row{Location: location, Range: r})
		}
	}

	if policy == AbortOnUnmatched && len(rep.Unmatched) > 0 {
		return Report{}, &UnmatchedPathError{Paths: rep.Unmatched}
	}
	return rep, nil
}

// Matrix renders the report as rows of four cells: metadata labels, metadata
// values, column labels, then one row per Row.
func (r Report) Matrix() [][]string {
	matrix := make([][]string, 0, len(r.Rows)+3)
	matrix = append(matrix,
		append([]string(nil), MetadataLabels...),
		[]string{r.Header.Producer, r.Header.Operator, r.Header.Job, r.Header.Notes},
		append([]string(nil), ColumnLabels...),
	)
	for _, row := range r.Rows {
		matrix = append(matrix, []string{row.Location, row.Range.String(), "", ""})
	}
	return matrix
}

// FrameCount returns the number of frames referenced by all rows.
func (r Report) FrameCount() int {
	total := 0
	for _, row := range r.Rows {
		total += row.Range.Len()
	}
	return total
}
