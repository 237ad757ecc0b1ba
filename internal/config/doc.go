// Package config loads, normalizes, and validates framefix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FRAMEFIX_UPLOAD_TOKEN. The Config type centralizes every knob the CLI and
// pipeline need so output, media tooling, record store, and upload settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
