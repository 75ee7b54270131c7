package sessionstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/issuetracker/core/session"
)

// record is the JSON form of a session kept in Redis.
type record[Data any] struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Data      Data      `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRecord[Data any](s *session.Session[Data]) record[Data] {
	return record[Data]{
		ID:        s.ID,
		Token:     s.Token,
		UserID:    s.UserID,
		IP:        s.IP,
		UserAgent: s.UserAgent,
		Data:      s.Data,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r record[Data]) session() *session.Session[Data] {
	return &session.Session[Data]{
		ID:        r.ID,
		Token:     r.Token,
		UserID:    r.UserID,
		IP:        r.IP,
		UserAgent: r.UserAgent,
		Data:      r.Data,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
