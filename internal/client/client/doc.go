// Package client is the FitTrack HTTP API client used by the CLI.
//
// The Client interface is the contract the CLI depends on; HTTPClient
// implements it over net/http. The session token issued by signup and
// signin arrives in the session cookie and is replayed as a bearer token,
// so it can be persisted between runs (see SetSession and Session).
//
// Error responses are decoded into *APIError, which unwraps to the common
// sentinels (common.ErrNotFound, common.ErrValidation and so on) so callers
// can match them with errors.Is. A server that cannot be reached yields
// ErrUnavailable.
package client
