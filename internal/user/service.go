// Package user stores and looks up accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/issuetracker/integration/database/pg"
)

// Service reads and writes the users table.
type Service struct {
	db *pg.DB
}

func NewService(db *pg.DB) *Service {
	return &Service{db: db}
}

// CreateParams are the fields of a new account. Password must already be hashed.
type CreateParams struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// All returns every user ordered by name, without emails or passwords.
func (s *Service) All(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, role FROM users ORDER BY name`, nil)
	users, err := pg.CollectRows(rows, err,
		func(row pgx.CollectableRow) (User, error) {
			var u User
			err := row.Scan(&u.ID, &u.Name, &u.Role)
			return u, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

const selectUser = `SELECT id, name, email, password, role, created_at FROM users`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// ByID returns the user with id or ErrNotFound.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(s.db.QueryRow(ctx, selectUser+` WHERE id = @id`, pgx.NamedArgs{"id": id}))
}

// ByEmail returns the user with email or ErrNotFound. Emails compare case-insensitively.
func (s *Service) ByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRow(ctx, selectUser+` WHERE email = @email`,
		pgx.NamedArgs{"email": normalizeEmail(email)}))
}

func (s *Service) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = @id)`, pgx.NamedArgs{"id": id})
}

func (s *Service) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = @email)`,
		pgx.NamedArgs{"email": normalizeEmail(email)})
}

func (s *Service) exists(ctx context.Context, sql string, args pgx.NamedArgs) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, sql, args).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Create inserts a user. A duplicate email fails with ErrEmailTaken.
func (s *Service) Create(ctx context.Context, p CreateParams) (User, error) {
	if p.Role == "" {
		p.Role = RoleUser
	}
	u, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES (@id, @name, @email, @password, @role)
		RETURNING id, name, email, password, role, created_at`,
		pgx.NamedArgs{
			"id":       uuid.New(),
			"name":     p.Name,
			"email":    normalizeEmail(p.Email),
			"password": p.Password,
			"role":     p.Role,
		},
	))
	if pg.IsDuplicateKeyError(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdatePassword stores a new password hash.
func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	n, err := s.db.Exec(ctx, `UPDATE users SET password = @password WHERE id = @id`,
		pgx.NamedArgs{"id": id, "password": hash})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
