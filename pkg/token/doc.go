// Package token generates random secrets encoded as hex, used for CSRF
// tokens and remember-me selector/validator pairs.
package token
