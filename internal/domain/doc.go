// Package domain defines the core business entities of Planky
// (users, bookmarks, tags) and their validation rules.
// Entities are plain structs with UUID identifiers; all timestamps are UTC.
package domain
