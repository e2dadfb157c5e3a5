// Package common contains shared constants and sentinel errors used across
// FitTrack components.
package common

// SessionCookieName is the HTTP cookie that carries the signed session token.
const SessionCookieName = "jwt"

// TraceIDHeaderName is echoed on every API response so client-side reports
// can be correlated with server logs.
const TraceIDHeaderName = "X-Trace-ID"
