package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// RedisConfig is the redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache implements Cache on top of redis. Entries are JSON encoded and
// expire after the configured TTL, so a missed invalidation heals itself.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, config RedisConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}
	return &RedisCache{rdb: rdb, ttl: config.TTL}, nil
}

// makeKey makes a key from a group ID.
func makeKey(groupID string) string {
	return "expensex:settlements:" + groupID
}

func (r *RedisCache) Get(ctx context.Context, groupID string) (*Entry, bool, error) {
	val, err := r.rdb.Get(ctx, makeKey(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", groupID, err)
	}
	entry, err := decodeEntry(val)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (r *RedisCache) Set(ctx context.Context, groupID string, entry *Entry) error {
	if r.ttl <= 0 {
		return nil
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := r.rdb.Set(ctx, makeKey(groupID), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", groupID, err)
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, groupID string) error {
	if err := r.rdb.Del(ctx, makeKey(groupID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", groupID, err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}

func decodeEntry(val []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}
