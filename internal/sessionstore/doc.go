// Package sessionstore provides PostgreSQL and Redis implementations of
// session.Store. Application data is stored as JSON.
package sessionstore
