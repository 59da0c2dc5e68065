// Package redisstore provides a redis key-value storage implementation.
//
// RedisStore stores, retrieves and deletes raw data keyed by a string.
// Expiration is delegated to redis key TTLs, so no cleanup loop is needed.
// A redis backed store lets several client processes share one session.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a redis backed storage for key-value data.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithPrefix prepends prefix to every key written by the store.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// New creates and returns a new RedisStore instance.
func New(rdb *redis.Client, opts ...Option) *RedisStore {
	s := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the data associated with the given key. Returns
// the data, a boolean indicating whether the key was found and
// not expired, and an error.
func (s *RedisStore) Get(key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(context.Background(), s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []byte{}, false, nil
		}
		return []byte{}, false, err
	}

	return data, true, nil
}

// Set stores the data under the given key with an expiration time. If
// a record with the same key already exists, it is overwritten. A zero
// expiresAt stores the key without a TTL.
func (s *RedisStore) Set(key string, data []byte, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return s.Delete(key)
		}
	}
	return s.rdb.Set(context.Background(), s.prefix+key, data, ttl).Err()
}

// Delete removes the data associated with the given key. If the key
// does not exist, this is a no-op.
func (s *RedisStore) Delete(key string) error {
	return s.rdb.Del(context.Background(), s.prefix+key).Err()
}
