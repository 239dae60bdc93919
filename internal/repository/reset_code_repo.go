package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResetCodeRepository keeps pending password-reset codes in Redis, one key
// per email. Redis expiry is the single source of truth for the code
// lifetime; a new code for the same email overwrites the previous one.
type ResetCodeRepository struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewResetCodeRepository(client *redis.Client) *ResetCodeRepository {
	return &ResetCodeRepository{client: client}
}

func key(email string) string {
	return "reset-code:" + email
}

// Set stores code for email with the given time to live, replacing any
// pending code.
func (r *ResetCodeRepository) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.client.Set(ctx, key(email), code, ttl).Err()
}

// Get returns the pending code for email, or "" when none exists or it
// has expired.
func (r *ResetCodeRepository) Get(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, key(email)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return code, nil
}

// Delete removes the pending code for email, if any.
func (r *ResetCodeRepository) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, key(email)).Err()
}
