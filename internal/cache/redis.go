package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/gravadigital/fring-api/internal/logger"
)

// Store is a JSON key/value cache backed by Redis
type Store struct {
	client *redis.Client
	prefix string
	log    *log.Logger
}

// Connect creates a Store for addr, which is either host:port or a redis:// URL,
// and checks the connection with a 5s ping.
func Connect(ctx context.Context, addr string) (*Store, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store := NewStore(client, "fring:")
	store.log.Info("Redis connected successfully", "addr", opts.Addr)
	return store, nil
}

// NewStore wraps an existing client; every key is prefixed with prefix
func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		log:    logger.WithContext("component", "cache"),
	}
}

// GetJSON decodes the value at key into dest. A missing key is a miss, not an error.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = s.client.Del(ctx, s.prefix+key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON stores value at key for ttl
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.client.Close()
}
