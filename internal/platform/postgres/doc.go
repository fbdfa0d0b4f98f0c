// Package postgres implements the store interfaces on PostgreSQL via the
// pgx database/sql driver. Stores accept a store.DBTX so they run equally
// against a connection pool or a transaction; goose SQL migrations for the
// schema live in the migrations subdirectory.
package postgres
