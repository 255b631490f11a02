package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "pestcert:training-content"

// RedisBackend keeps the document under a single key, for deployments without a
// writable disk such as Lambda.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// NewRedisClient connects and pings, the way the rest of the service expects a ready client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (b *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return DefaultDocument, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get content: %w", err)
	}
	return raw, nil
}

func (b *RedisBackend) Save(ctx context.Context, doc []byte) error {
	if !json.Valid(doc) {
		return ErrInvalidDocument
	}
	if err := b.client.Set(ctx, b.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("redis set content: %w", err)
	}
	return nil
}
