package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// SessionStore persists in-progress wizard sessions in Redis.
// Sessions carry a TTL; a session that is not touched within the TTL is
// considered abandoned and simply expires — abandonment never produces a
// partial protocol in Postgres.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore constructs a SessionStore. ttl must be positive.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return "wizard:session:" + id.String()
}

// Save writes the session as JSON and refreshes its TTL.
func (st *SessionStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("wizard.SessionStore.Save: marshal: %w", err)
	}
	if err := st.rdb.Set(ctx, sessionKey(s.ID), payload, st.ttl).Err(); err != nil {
		return fmt.Errorf("wizard.SessionStore.Save: %w", err)
	}
	return nil
}

// Get loads a session by ID. Returns domain.ErrNotFound for unknown or
// expired sessions.
func (st *SessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	payload, err := st.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("wizard.SessionStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("wizard.SessionStore.Get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("wizard.SessionStore.Get: unmarshal: %w", err)
	}
	return &s, nil
}

// Delete removes a session, typically after a successful submission.
// Deleting a missing session is not an error.
func (st *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := st.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("wizard.SessionStore.Delete: %w", err)
	}
	return nil
}
