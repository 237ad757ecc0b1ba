// Package pipeline orchestrates a framefix run.
//
// A run parses the work order and shot log, matches shot paths to work-order
// locations, optionally bounds frames by the reference video's frame count,
// assembles the report, persists it, and writes the CSV and optional
// workbook. Collaborators that touch the outside world (ffprobe, SQLite,
// ffmpeg, the upload service, ntfy) are injected as small interfaces so the
// core stays testable with fakes.
//
// Runs against the same output directory are serialized with a file lock.
package pipeline
