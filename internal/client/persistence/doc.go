// Package persistence saves the store aggregate to the local key-value
// database and, when configured, mirrors it to a remote location.
//
// The aggregate is split over two documents, mirroring how the map view and
// the account data were stored separately in the browser:
//
//	dnd-map-user-database  {users, characters, auditLog, version}
//	dnd-map-database       {markers, version}
//
// Both are written in one transaction. Load never fails: a missing or corrupt
// document leaves its collections empty and logs a warning.
//
// Mirroring is best effort. Each successful local save hands the full export
// document to one background pusher through a single-slot queue, so a newer
// snapshot replaces one that has not been sent yet. Push failures are logged
// and dropped.
package persistence
