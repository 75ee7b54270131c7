// Package auth implements sign up, sign in, password changes and the
// remember me tokens that restore a signed out session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/issuetracker/core/validator"
	"github.com/dmitrymomot/issuetracker/integration/database/pg"
	"github.com/dmitrymomot/issuetracker/internal/user"
)

// RememberTTL is how long a remember me token stays valid.
const RememberTTL = 28 * 24 * time.Hour

// Users is the part of the user service auth needs.
type Users interface {
	EmailChecker
	ByID(ctx context.Context, id uuid.UUID) (user.User, error)
	ByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, p user.CreateParams) (user.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type Service struct {
	db    *pg.DB
	users Users
}

func NewService(db *pg.DB, users Users) *Service {
	return &Service{db: db, users: users}
}

// SignUp creates a regular user. An email registered between validation and
// insert is reported as a field error.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.CreateParams{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     user.RoleUser,
	})
	if errors.Is(err, user.ErrEmailTaken) {
		return user.User{}, validator.NewError("email", "Email is already taken")
	}
	return u, err
}

// SignIn checks the credentials. Unknown emails and wrong passwords fail
// with the same form error.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (user.User, error) {
	u, err := s.users.ByEmail(ctx, in.Email)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, validator.NewError(FormField, MsgInvalidCredentials)
	}
	if err != nil {
		return user.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return user.User{}, validator.NewError(FormField, MsgInvalidCredentials)
	}
	return u, nil
}

// ChangePassword verifies the current password, stores the new one and
// forgets the remember me tokens of every other device. currentSelector is
// the selector of the caller's own token, or "".
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput, currentSelector string) error {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.CurrentPassword)) != nil {
		return validator.NewError(FormField, MsgWrongPassword)
	}
	if in.NewPassword == in.CurrentPassword {
		return validator.NewError(FormField, MsgSamePassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.ForgetOthers(ctx, userID, currentSelector)
}

// Remember issues a remember me token for userID.
func (s *Service) Remember(ctx context.Context, userID uuid.UUID) (RememberToken, error) {
	tok, hash, err := newRememberToken()
	if err != nil {
		return RememberToken{}, fmt.Errorf("generate remember token: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO user_tokens (selector, hashed_validator, user_id, expiry)
		VALUES (@selector, @hash, @user_id, @expiry)`,
		pgx.NamedArgs{
			"selector": tok.Selector,
			"hash":     hash,
			"user_id":  userID,
			"expiry":   time.Now().Add(RememberTTL),
		},
	)
	if err != nil {
		return RememberToken{}, fmt.Errorf("store remember token: %w", err)
	}
	return tok, nil
}

// Restore returns the user a live token belongs to. Any mismatch is
// ErrInvalidRememberToken.
func (s *Service) Restore(ctx context.Context, tok RememberToken) (user.User, error) {
	var (
		userID uuid.UUID
		hash   string
	)
	err := s.db.QueryRow(ctx, `
		SELECT user_id, hashed_validator FROM user_tokens
		WHERE selector = @selector AND expiry > NOW()`,
		pgx.NamedArgs{"selector": tok.Selector},
	).Scan(&userID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrInvalidRememberToken
	}
	if err != nil {
		return user.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(tok.Validator)) != nil {
		return user.User{}, ErrInvalidRememberToken
	}

	u, err := s.users.ByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInvalidRememberToken
	}
	return u, err
}

// Forget deletes the token with selector.
func (s *Service) Forget(ctx context.Context, selector string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM user_tokens WHERE selector = @selector`,
		pgx.NamedArgs{"selector": selector})
	return err
}

// ForgetOthers deletes every token of userID except keep. An empty keep
// deletes them all.
func (s *Service) ForgetOthers(ctx context.Context, userID uuid.UUID, keep string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM user_tokens
		WHERE user_id = @user_id AND (@keep = '' OR selector <> @keep)`,
		pgx.NamedArgs{"user_id": userID, "keep": keep},
	)
	return err
}

// DeleteExpiredTokens removes stale remember me tokens.
func (s *Service) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	return s.db.Exec(ctx, `DELETE FROM user_tokens WHERE expiry <= NOW()`, nil)
}
