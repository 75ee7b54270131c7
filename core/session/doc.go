// Package session implements server-side sessions with pluggable storage.
//
// A Session carries a stable ID, a rotating token and typed application data.
// The Manager creates, loads and persists sessions through a Store; the
// client only ever sees the token, delivered by a transport such as
// sessiontransport.Cookie.
//
// Sessions are written back only when something changed or the touch
// interval has passed, which keeps store writes low for busy pages.
package session
