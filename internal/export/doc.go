// Package export renders an assembled report into its output artifacts.
//
// WriteCSV emits the delimited-text layout: metadata labels, metadata values,
// column labels, then one four-column row per report row. WriteXLSX builds the
// review workbook with timecodes and embedded thumbnails. Both write through a
// temporary file and rename into place.
package export
