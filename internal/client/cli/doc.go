// Package cli provides the interactive mapkeeper command-line client.
//
// It wires configuration, the local database, the optional snapshot mirror
// and the in-memory stores, then runs a REPL standing in for the map view:
// accounts and profiles, characters, markers, admin role changes, the audit
// trail and snapshot export/import.
//
// When a mirror is configured a background watcher pings it on an interval
// and flips the prompt between online and offline. The local stores keep
// working either way.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
