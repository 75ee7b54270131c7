package auth

import "errors"

var (
	ErrInvalidRememberToken = errors.New("invalid remember me token")
)

// Form-level messages, reported under FormField.
const (
	FormField = "form"

	MsgInvalidCredentials = "Invalid email or password."
	MsgWrongPassword      = "The current password provided is incorrect. Please check your credentials and try again."
	MsgSamePassword       = "The new password cannot be the same as the current one. Please choose a different password."
)
