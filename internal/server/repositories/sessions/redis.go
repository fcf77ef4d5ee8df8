package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "session:"
	redisSeqKey    = "sessions:seq"
)

// redisClient is the part of *redis.Client the repository needs.
type redisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository keeps sessions in Redis. Keys hold the user id and are
// named after the SHA-256 of the token, so raw tokens never reach Redis.
// Keys expire after ttl, normally the token validity; zero keeps them until
// sign-out.
type RedisRepository struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisRepository(client redisClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

func (r *RedisRepository) Create(ctx context.Context, userID int64, token string) (*models.Session, error) {
	id, err := r.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(token), strconv.FormatInt(userID, 10), r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return &models.Session{ID: id, UserID: userID, Token: token, CreatedAt: time.Now()}, nil
}

func (r *RedisRepository) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
