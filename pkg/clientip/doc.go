// Package clientip extracts the client IP address of a request.
//
// Proxy headers are checked in order: CF-Connecting-IP, DO-Connecting-IP,
// X-Forwarded-For (leftmost entry), X-Real-IP, then RemoteAddr. Invalid
// values and 0.0.0.0 are skipped.
package clientip
