// Package frames compresses frame numbers into contiguous ranges and expands
// them again.
//
// A Range is either a single frame ("45") or an inclusive span ("10-20").
// Compress always produces the minimal cover of its input: ranges are sorted
// ascending and never overlap or touch, so the output for a given set of
// frames is unique.
package frames
