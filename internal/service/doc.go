// Package service provides application-level services for bookmarks and
// tags. Services orchestrate multi-store operations inside transactions;
// single-store reads and writes go straight from the handlers to the
// stores.
package service
