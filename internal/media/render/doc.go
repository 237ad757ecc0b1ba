// Package render extracts still thumbnails and short clips from a reference
// video with ffmpeg, and converts frame numbers into the timecodes shown in
// the review workbook.
package render
