package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/integration/database/pg"
)

// Postgres keeps sessions in the sessions table. updated_at doubles as the
// last access time used for garbage collection.
type Postgres[Data any] struct {
	db *pg.DB
}

func NewPostgres[Data any](db *pg.DB) *Postgres[Data] {
	return &Postgres[Data]{db: db}
}

const selectSession = `
	SELECT id, token, user_id, ip, user_agent, data, expires_at, created_at, updated_at
	FROM sessions`

func (s *Postgres[Data]) get(ctx context.Context, where string, args pgx.NamedArgs) (*session.Session[Data], error) {
	var (
		sess   session.Session[Data]
		userID *uuid.UUID
		data   []byte
	)
	err := s.db.QueryRow(ctx, selectSession+" WHERE "+where, args).Scan(
		&sess.ID, &sess.Token, &userID, &sess.IP, &sess.UserAgent, &data,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if userID != nil {
		sess.UserID = *userID
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sess.Data); err != nil {
			return nil, fmt.Errorf("decode session data: %w", err)
		}
	}
	return &sess, nil
}

func (s *Postgres[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	return s.get(ctx, "id = @id", pgx.NamedArgs{"id": id})
}

func (s *Postgres[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	return s.get(ctx, "token = @token", pgx.NamedArgs{"token": token})
}

// Save upserts the session by ID.
func (s *Postgres[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	data, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}

	var userID *uuid.UUID
	if sess.UserID != uuid.Nil {
		userID = &sess.UserID
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO sessions (id, token, user_id, ip, user_agent, data, expires_at, created_at, updated_at)
		VALUES (@id, @token, @user_id, @ip, @user_agent, @data, @expires_at, @created_at, @updated_at)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			user_id = EXCLUDED.user_id,
			ip = EXCLUDED.ip,
			user_agent = EXCLUDED.user_agent,
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		pgx.NamedArgs{
			"id":         sess.ID,
			"token":      sess.Token,
			"user_id":    userID,
			"ip":         sess.IP,
			"user_agent": sess.UserAgent,
			"data":       data,
			"expires_at": sess.ExpiresAt,
			"created_at": sess.CreatedAt,
			"updated_at": sess.UpdatedAt,
		},
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Postgres[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Postgres[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`, nil)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
