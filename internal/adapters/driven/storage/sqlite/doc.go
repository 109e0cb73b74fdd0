// Package sqlite implements the VectorStore port on a local SQLite
// database (modernc.org/sqlite, no cgo).
//
// Schema changes go through numbered migrations in migrations/*.up.sql,
// applied in order and recorded in schema_migrations.
package sqlite
