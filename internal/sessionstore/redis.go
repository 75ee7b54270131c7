package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/issuetracker/core/session"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "session:"

// Redis keeps each session under its ID and indexes it by token. Both keys
// expire with the session, so DeleteExpired has nothing to do.
type Redis[Data any] struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis[Data any](client redis.UniversalClient, prefix string) *Redis[Data] {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis[Data]{client: client, prefix: prefix}
}

func (s *Redis[Data]) idKey(id uuid.UUID) string {
	return s.prefix + "id:" + id.String()
}

func (s *Redis[Data]) tokenKey(token string) string {
	return s.prefix + "token:" + token
}

func (s *Redis[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rec record[Data]
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return rec.session(), nil
}

func (s *Redis[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	id, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}

	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, session.ErrNotFound
	}
	return s.GetByID(ctx, sid)
}

// Save writes the session and its token index. A rotated token drops the
// old index entry.
func (s *Redis[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	raw, err := json.Marshal(toRecord(sess))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var oldToken string
	if old, err := s.GetByID(ctx, sess.ID); err == nil && old.Token != sess.Token {
		oldToken = old.Token
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.idKey(sess.ID), raw, ttl)
		pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
		if oldToken != "" {
			pipe.Del(ctx, s.tokenKey(oldToken))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Redis[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.idKey(id), s.tokenKey(sess.Token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Redis[Data]) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
