// Package identity provides authentication and authorization for OpsDesk.
//
// It implements the console's access-control core:
//   - bcrypt password hashing at a fixed work factor of 12
//   - Company/User/Permission entities over SQLite repositories
//   - Idempotent seeding of the five-module permission catalog
//   - A single authorization gate (AccessChecker) with admin bypass
//   - The ordered login state machine (email → account active → company
//     active → password), which updates last_login_at on success
//   - Whole-set permission grant replacement with all/none selectors
//
// Users belong to exactly one company; permissions are a shared catalog that
// users reference via grants, never own. Email uniqueness is global, not
// per-company: login looks users up by email alone, matching the existing
// behaviour even though data is otherwise tenant-scoped.
package identity
