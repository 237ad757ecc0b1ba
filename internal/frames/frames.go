package frames

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidRange reports text that is not a single frame or a start-end span.
var ErrInvalidRange = errors.New("invalid frame range")

// Range is an inclusive span of frame numbers. Start == End for single frames.
type Range struct {
	Start int
	End   int
}

// Single returns a range covering exactly one frame.
func Single(frame int) Range {
	return Range{Start: frame, End: frame}
}

// String renders the range as "N" or "start-end".
func (r Range) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// IsSingle reports whether the range holds one frame.
func (r Range) IsSingle() bool {
	return r.Start == r.End
}

// Len returns the number of frames in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Midpoint returns the integer midpoint, rounded down.
func (r Range) Midpoint() int {
	return (r.Start + r.End) / 2
}

// WithinBound reports whether every frame of the range is <= maxFrame.
// Start <= End always holds, so checking End is equivalent to expanding.
func (r Range) WithinBound(maxFrame int) bool {
	return r.End <= maxFrame
}

// Compress converts frame numbers into the minimal ascending list of maximal
// contiguous ranges. Duplicates are ignored and negative values are dropped.
func Compress(numbers []int) []Range {
	if len(numbers) == 0 {
		return nil
	}
	sorted := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n >= 0 {
			sorted = append(sorted, n)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranges := make([]Range, 0, len(sorted))
	current := Single(sorted[0])
	for _, n := range sorted[1:] {
		if n == current.End+1 {
			current.End = n
			continue
		}
		ranges = append(ranges, current)
		current = Single(n)
	}
	return append(ranges, current)
}

// Expand returns every frame covered by r, in ascending order.
func Expand(r Range) []int {
	if r.End < r.Start {
		return nil
	}
	out := make([]int, 0, r.Len())
	for n := r.Start; n <= r.End; n++ {
		out = append(out, n)
	}
	return out
}

// ParseRange parses the String form of a Range.
func ParseRange(value string) (Range, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Range{}, fmt.Errorf("%w: empty value", ErrInvalidRange)
	}
	startText, endText, isSpan := strings.Cut(trimmed, "-")
	start, err := parseFrame(startText)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, value)
	}
	if !isSpan {
		return Single(start), nil
	}
	end, err := parseFrame(endText)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, value)
	}
	if end < start {
		return Range{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidRange, value)
	}
	return Range{Start: start, End: end}, nil
}

// FormatRanges renders each range with String.
func FormatRanges(ranges []Range) []string {
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = r.String()
	}
	return out
}

// IsFrameToken reports whether token is a non-negative decimal frame number
// and returns its value.
func IsFrameToken(token string) (int, bool) {
	n, err := parseFrame(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFrame(text string) (int, error) {
	if text == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(text)
}
