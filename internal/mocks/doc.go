// Package mocks provides hand-written mock implementations of the store and
// auth service interfaces for handler and service tests. Each mock exposes
// function fields to override behavior per test; unset fields fall back to a
// simple in-memory default.
package mocks
