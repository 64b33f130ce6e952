// Package common contains constants and helpers shared by the
// signup client packages.
package common

const (
	// TokenStorageKey and UsernameStorageKey name the two local storage
	// entries holding the teacher session. They are written and removed
	// together.
	TokenStorageKey    = "teacherToken"
	UsernameStorageKey = "teacherUsername"

	// RequestIDHeaderName carries a per-request id used to correlate client
	// logs with server logs.
	RequestIDHeaderName = "X-Request-ID"
)
