// Package main hosts the framefix CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline runs,
// read-only previews, record-store queries, dependency status and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands can focus on presentation.
//
// Keep this package lean: new behavior belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
