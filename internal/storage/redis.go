package storage

// This file provides a Redis-backed KV for deployments where several
// lobby kiosks should share one client state (a guest starts a cart on
// one terminal and finishes on another). Keys are namespaced under a
// configurable prefix. Documents carry no TTL; the stores own their
// lifecycle through explicit Put/Delete calls.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV implements KV on top of a shared Redis instance.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV wraps an existing client. The prefix defaults to
// "hotel-client" when empty.
func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = "hotel-client"
	}
	return &RedisKV{client: client, prefix: prefix}
}

func (r *RedisKV) key(ns string) string { return r.prefix + ":" + ns }

func (r *RedisKV) Get(ns string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := r.client.Get(ctx, r.key(ns)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisKV) Put(ns string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Set(ctx, r.key(ns), data, 0).Err()
}

func (r *RedisKV) Delete(ns string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Del(ctx, r.key(ns)).Err()
}
