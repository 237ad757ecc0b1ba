// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Counter: frame count and frame rate of a reference video
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - CountFrames: decodes the first video stream and returns its frame count
package ffprobe
