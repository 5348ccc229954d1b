// Package ticketapi is the HTTP client for the external ticket service.
//
// The service protects its endpoints with OAuth2 client credentials. The
// client caches the access token, refreshes it under a single lock so
// concurrent callers trigger at most one exchange, and transparently retries
// a request exactly once when the service rejects the cached token.
package ticketapi
