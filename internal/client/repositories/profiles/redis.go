package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

const profileKeyPrefix = "gophprofile:profile:"

// RedisConfig captures the settings for the key-value store.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis initialises a client and validates it with a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore keeps each profile as a JSON string under a per-user key.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

func (s *RedisStore) Read(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	raw, err := s.rdb.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec models.ProfileRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Write(ctx context.Context, rec models.ProfileRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.rdb.Set(ctx, profileKey(rec.UserID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Update is a read-merge-write; concurrent writers of the same user are
// last-write-wins.
func (s *RedisStore) Update(ctx context.Context, userID string, u models.ProfileUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	rec, err := s.Read(ctx, userID)
	if err != nil {
		return err
	}
	u.Apply(rec)
	return s.Write(ctx, *rec)
}
