// Package api implements the REST client for the Farmline backend.
//
// The HTTP client is an explicitly constructed object with an interceptor
// chain (see transport.go) rather than ambient globals: one interceptor
// attaches the bearer token to every outgoing request, another watches for
// 401 responses on protected endpoints and notifies a registered hook so
// the session layer can tear the session down.
//
// List endpoints unwrap the backend's {"content": [...]} envelope. Errors
// carry the server-supplied message when one exists and unwrap to the
// sentinel errors in internal/common (ErrUnauthorized, ErrNotFound,
// ErrUnavailable) for errors.Is matching.
package api
