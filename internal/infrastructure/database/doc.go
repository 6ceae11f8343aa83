// Package database provides SQLite connectivity for OpsDesk.
//
// It manages:
//   - Connection setup with WAL mode, busy timeout and foreign keys on
//   - Embedded schema migrations (version-ordered up/down pairs)
//   - Health checks and connection lifecycle
//
// All queries use parameterised statements and the database file is created
// with 0600 permissions. The pool is pinned to a single connection: the
// console serves one operator, and SQLite has a single writer regardless.
package database
