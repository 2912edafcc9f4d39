package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/joeydtaylor/steeze-extension/pkg/codec"
)

// stringGetter is the part of *redis.Client the registry needs.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis reads connector records stored as JSON under prefix+id.
type Redis struct {
	client stringGetter
	closer func() error
	prefix string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func NewRedis(cfg RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{client: client, closer: client.Close, prefix: cfg.KeyPrefix}
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, closer: client.Close, prefix: prefix}
}

func (r *Redis) Find(ctx context.Context, id string) (Connector, error) {
	raw, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Connector{}, ErrNotFound
	}
	if err != nil {
		return Connector{}, fmt.Errorf("redis get connector %s: %w", id, err)
	}
	var rec Record
	if err := codec.JSONStrict.Unmarshal(raw, &rec); err != nil {
		return Connector{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidRecord, id, err)
	}
	return rec.connector(id)
}

func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
