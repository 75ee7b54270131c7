// Package sessiontransport moves session tokens between the server and the
// client. Cookie stores the token in a signed cookie and keeps its Max-Age
// aligned with the server-side expiry.
package sessiontransport
