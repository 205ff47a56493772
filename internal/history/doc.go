// Package history persists a record of finished export jobs in SQLite.
//
// The store is append-and-list: one row per terminal job (completed, failed,
// or cancelled), newest first. It exists for the CLI's jobs view and has no
// influence on pipeline behavior.
package history
