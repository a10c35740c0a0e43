// Package store is the in-memory data layer of mapkeeper.
//
// A Database owns one aggregate (users, characters, markers and the audit
// log) guarded by a single mutex, plus a SessionRegistry that is never
// persisted. The stores exposed on Database share that aggregate:
//
//   - UserStore: registration, login/logout, profiles, roles
//   - SessionRegistry: opaque session tokens for logged-in users
//   - CharacterStore: player tokens with owner/admin authorization
//   - MarkerStore: map markers, owner-only edits
//   - AuditLog: append-only history of mutations
//
// Every successful mutation appends its audit entry (where one applies) and
// then hands a snapshot to the Gateway. Save failures are logged as
// persistence warnings and never undo the in-memory change.
//
// # Errors
//
// Domain failures are *common.Error values; match their kind with errors.Is
// against common.ErrValidation, ErrConflict, ErrNotFound, ErrAuthentication
// and ErrAuthorization.
package store
