package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Manager implements the session lifecycle on top of a Store.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a Manager. Zero durations in cfg fall back to DefaultConfig.
func NewManager[Data any](store Store[Data], cfg Config) *Manager[Data] {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.TouchInterval < 0 {
		cfg.TouchInterval = def.TouchInterval
	}
	return &Manager[Data]{store: store, ttl: cfg.TTL, touchInterval: cfg.TouchInterval}
}

// New creates an anonymous session. It is persisted by Store.
func (m *Manager[Data]) New(_ context.Context, params NewSessionParams) (Session[Data], error) {
	return New[Data](params, m.ttl)
}

// GetByToken loads a live session by its token.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}
	return *sess, nil
}

// GetByID loads a live session by its ID.
func (m *Manager[Data]) GetByID(ctx context.Context, id uuid.UUID) (Session[Data], error) {
	sess, err := m.store.GetByID(ctx, id)
	if err != nil {
		return Session[Data]{}, err
	}
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}
	return *sess, nil
}

// Authenticate returns sess bound to userID with a fresh token.
func (m *Manager[Data]) Authenticate(_ context.Context, sess Session[Data], userID uuid.UUID, data ...Data) (Session[Data], error) {
	if err := sess.Authenticate(userID, data...); err != nil {
		return Session[Data]{}, err
	}
	return sess, nil
}

// Delete removes a session from the store.
func (m *Manager[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// Store writes sess back when needed and reports whether it was saved.
// A session marked by Logout is deleted and ErrNotAuthenticated is returned
// so the transport can drop the client token.
func (m *Manager[Data]) Store(ctx context.Context, sess Session[Data]) (bool, error) {
	if sess.IsDeleted() {
		if err := m.Delete(ctx, sess.ID); err != nil {
			return false, err
		}
		return false, ErrNotAuthenticated
	}

	sess.Touch(m.ttl, m.touchInterval)
	if !sess.IsModified() {
		return false, nil
	}

	if err := m.store.Save(ctx, &sess); err != nil {
		return false, errors.Join(ErrSaveSession, err)
	}
	return true, nil
}

// CleanupExpired removes expired sessions from the store.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// Run calls CleanupExpired every interval until ctx is done.
func (m *Manager[Data]) Run(ctx context.Context, interval time.Duration, onError func(error)) error {
	if interval <= 0 {
		interval = DefaultConfig().CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.CleanupExpired(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

// TTL returns the session lifetime.
func (m *Manager[Data]) TTL() time.Duration {
	return m.ttl
}
