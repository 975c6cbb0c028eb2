// Package models defines the core domain models for mymap.
//
// # Records
//
// The following models are persisted by the storage layer:
//   - Marker: a named point of interest with coordinates
//   - User: a registered account (only used when authentication is enabled)
//   - Session: a server-side login, referenced by the session token
//
// # Request values
//
// MarkerInput and MarkerPatch are the typed values produced by request decoding.
// They reach the service layer already parsed; the service only checks semantics.
//
// # Ownership
//
// A marker names at most one owner through OwnerID. Markers created while
// authentication is disabled have no owner and can only be changed in that mode.
package models
