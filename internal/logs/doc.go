// Package logs reads the framefix log file for the CLI.
//
// Tail returns the last lines with bounded memory usage, Follow polls for
// appended lines until its context ends, and FilterRun narrows either to the
// records of a single run in both console and JSON formats.
package logs
