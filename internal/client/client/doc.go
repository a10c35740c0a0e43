// Package client contains the client-side plumbing around the local store.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic mirror contract (see the Client interface) used to
//     copy exported snapshots off the machine: Ping, PushSnapshot and
//     PullSnapshot.
//  2. Three implementations: GRPCClient talks to the mapkeeper mirror server
//     and injects an access token via an interceptor, S3Client stores the
//     document as an object, RedisClient keeps it under a single key.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations), opening the
//     SQLite file and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures are mapped to sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized and ErrNoSnapshot.
//
// All operations accept context.Context and honor cancellation and timeouts.
package client
