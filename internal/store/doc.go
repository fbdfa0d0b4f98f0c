// Package store defines the persistence interfaces for Planky entities and
// shared database plumbing (the DBTX abstraction, sentinel errors, and
// transaction helpers). Implementations live in internal/platform/postgres.
//
// All query methods that operate on user-owned entities take the owning
// user's ID explicitly; ownership scoping happens in SQL, so a lookup of
// another user's entity reports not-found rather than forbidden.
package store
