package auth

import (
	"context"
	"regexp"

	"github.com/dmitrymomot/issuetracker/core/validator"
)

var (
	namePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

const msgWeakPassword = "Password must contain at least one lowercase letter, one uppercase letter, one digit, and one special character"

// strongPassword needs one of each character class and nothing outside the
// allowed set. RE2 has no lookahead, so the classes are checked one by one.
func strongPassword(s string) bool {
	return passwordCharset.MatchString(s) &&
		passwordLower.MatchString(s) &&
		passwordUpper.MatchString(s) &&
		passwordDigit.MatchString(s) &&
		passwordSpecial.MatchString(s)
}

func newPassword(input *string) *validator.StringValidator {
	return validator.String(input).
		MinLength(6, "Password must be at least 6 characters long").
		MaxLength(30, "Password cannot exceed 30 characters").
		Custom(strongPassword, msgWeakPassword)
}

// SignUpInput is a validated sign up form.
type SignUpInput struct {
	Name       string
	Email      string
	Password   string
	RememberMe bool
}

// EmailChecker reports whether an email is already registered.
type EmailChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ValidateSignUp checks a sign up form. The uniqueness lookup only runs for
// a well formed email. A lookup failure is returned as is.
func ValidateSignUp(ctx context.Context, users EmailChecker, form map[string][]string) (SignUpInput, error) {
	in := validator.Input(form, "name", "email", "password", "confirmPassword", "rememberMe")

	email := validator.String(in["email"]).Trim().Email()
	var lookupErr error
	if email.Valid() {
		email.Custom(func(s string) bool {
			taken, err := users.ExistsByEmail(ctx, s)
			if err != nil {
				lookupErr = err
				return true
			}
			return !taken
		}, "Email is already taken")
	}
	if lookupErr != nil {
		return SignUpInput{}, lookupErr
	}

	out, err := validator.Validate(map[string]*validator.StringValidator{
		"name": validator.String(in["name"]).
			Trim().
			MinLength(2, "Name must be at least 2 characters long").
			MaxLength(75, "Name cannot exceed 75 characters").
			Pattern(namePattern, "Name must contain only alphabetic characters"),
		"email":           email,
		"password":        newPassword(in["password"]),
		"confirmPassword": validator.String(in["confirmPassword"]).Equals(in["password"], "Please ensure both passwords match."),
		"rememberMe":      validator.String(in["rememberMe"], validator.Optional()),
	}, in)
	if err != nil {
		return SignUpInput{}, err
	}

	return SignUpInput{
		Name:       out["name"],
		Email:      out["email"],
		Password:   out["password"],
		RememberMe: out["rememberMe"] == "on",
	}, nil
}

// SignInInput is a validated sign in form.
type SignInInput struct {
	Email      string
	Password   string
	RememberMe bool
}

func ValidateSignIn(form map[string][]string) (SignInInput, error) {
	in := validator.Input(form, "email", "password", "rememberMe")
	out, err := validator.Validate(map[string]*validator.StringValidator{
		"email":      validator.String(in["email"]).Trim().Email(),
		"password":   validator.String(in["password"]),
		"rememberMe": validator.String(in["rememberMe"], validator.Optional()),
	}, in)
	if err != nil {
		return SignInInput{}, err
	}
	return SignInInput{
		Email:      out["email"],
		Password:   out["password"],
		RememberMe: out["rememberMe"] == "on",
	}, nil
}

// ChangePasswordInput is a validated change password form.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

func ValidateChangePassword(form map[string][]string) (ChangePasswordInput, error) {
	in := validator.Input(form, "currentPassword", "newPassword", "confirmNewPassword")
	out, err := validator.Validate(map[string]*validator.StringValidator{
		"currentPassword":    validator.String(in["currentPassword"]),
		"newPassword":        newPassword(in["newPassword"]),
		"confirmNewPassword": validator.String(in["confirmNewPassword"]).Equals(in["newPassword"], "Please ensure both passwords match."),
	}, in)
	if err != nil {
		return ChangePasswordInput{}, err
	}
	return ChangePasswordInput{
		CurrentPassword: out["currentPassword"],
		NewPassword:     out["newPassword"],
	}, nil
}
