// Package store persists parsed work orders and report rows in SQLite.
//
// The Store owns the database connection, schema initialization and the
// busy-retry wrapper used by every write. Each persisted run replaces the
// previous contents: Reset clears both tables, then the pipeline saves one
// work-order record per location and one shot record per report row, all
// tagged with the run identifier.
//
// The database is treated as transient storage for the latest run rather than
// a long-term archive. Schema changes bump the version in schema.go; users
// delete the database to adopt the new schema.
package store
