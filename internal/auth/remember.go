package auth

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/issuetracker/pkg/token"
)

const (
	selectorBytes  = 16
	validatorBytes = 32
)

// RememberToken is the selector:validator pair kept in the remember me cookie.
// Only a bcrypt hash of Validator is stored server side.
type RememberToken struct {
	Selector  string
	Validator string
}

func (t RememberToken) String() string {
	return t.Selector + ":" + t.Validator
}

func newRememberToken() (RememberToken, string, error) {
	selector, err := token.Hex(selectorBytes)
	if err != nil {
		return RememberToken{}, "", err
	}
	validator, err := token.Hex(validatorBytes)
	if err != nil {
		return RememberToken{}, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(validator), bcrypt.DefaultCost)
	if err != nil {
		return RememberToken{}, "", err
	}
	return RememberToken{Selector: selector, Validator: validator}, string(hash), nil
}

// ParseRememberToken splits a cookie value. Both halves must be hex of the
// expected length.
func ParseRememberToken(value string) (RememberToken, bool) {
	selector, validator, ok := strings.Cut(value, ":")
	if !ok || !isHex(selector, selectorBytes) || !isHex(validator, validatorBytes) {
		return RememberToken{}, false
	}
	return RememberToken{Selector: selector, Validator: validator}, true
}

func isHex(s string, n int) bool {
	if len(s) != n*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
