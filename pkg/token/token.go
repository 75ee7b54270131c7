package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Hex returns n random bytes as a 2n character hex string.
func Hex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token: read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MustHex is like Hex but panics if the system random source fails.
func MustHex(n int) string {
	s, err := Hex(n)
	if err != nil {
		panic(err)
	}
	return s
}

// Equal compares two tokens in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
