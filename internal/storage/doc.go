// Package storage persists the bot's durable state: the welcome template and
// the ordered set of registered user ids.
//
// It currently supports:
//   - "file": one indented JSON document, replaced via write-then-rename
//   - "sqlite": a single-file SQLite database holding the same record
//
// Both drivers also keep an append-only audit log of admin actions.
package storage
