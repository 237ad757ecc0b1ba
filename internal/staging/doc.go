// Package staging manages the media artifact directory that backs the
// spreadsheet.
//
// Thumbnails and clips are named by spreadsheet row, so a run that produces
// fewer rows than the previous one would otherwise leave stale files behind.
// CleanArtifacts clears them before rendering; ListArtifacts reports what is
// on disk for status output.
package staging
