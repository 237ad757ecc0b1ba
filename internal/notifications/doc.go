// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Enumerated events
// cover run completion, unmatched shot paths and failures so the pipeline can
// emit consistent messages without duplicating HTTP glue.
package notifications
