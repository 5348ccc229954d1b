// Package mockticket implements a stand-in ticket service for local
// development and tests: an OAuth2 client-credentials token endpoint plus
// SQLite-backed ticket create and status routes.
package mockticket
