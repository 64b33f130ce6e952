// Package client contains the client-side building blocks that talk to the
// outside world: the activities API and the local database.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the activities listing, signup, unregister, login and logout.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that attaches the
//     bearer token and a request id to every call and maps failures to
//     sentinel errors or *APIError.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable, malformed payloads wrap ErrDecode,
// and non-2xx responses are returned as *APIError carrying the server's
// detail text. Match them with errors.Is / errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
