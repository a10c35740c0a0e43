// Package common contains shared constants, the error taxonomy and small
// helpers used across the mapkeeper client and mirror server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// mirror access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SchemaVersion is the version stamped on every persisted document.
const SchemaVersion = 1
