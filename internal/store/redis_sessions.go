package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

// RedisSessionStore keeps sessions in Redis instead of Postgres, selected
// with SESSION_STORE=redis. Each session lives under session:<token> with a
// TTL matching its expiry, so Redis reaps expired rows on its own. A reaped
// session surfaces as not-found rather than expired; the session manager's
// own expiry check still applies while the key exists.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", core.ErrStorageUnavailable)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return storageErr(err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.SessionToken), b, ttl).Err(); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *RedisSessionStore) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	var sess models.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, storageErr(err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) DeleteSessionByToken(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}
