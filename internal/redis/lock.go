package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Only the holder's token may release a key.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type Redis struct {
	Client   *redis.Client
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
}

func NewRedis(client *redis.Client, ttl, wait time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &Redis{Client: client, ttl: ttl, wait: wait, interval: 50 * time.Millisecond}
}

func lockKey(key string) string {
	return "hotel_lock:" + key
}

// TryLock takes the key once without waiting.
func (r *Redis) TryLock(ctx context.Context, key string) (string, bool, error) {
	token, err := newToken()
	if err != nil {
		return "", false, err
	}
	ok, err := r.Client.SetNX(ctx, lockKey(key), token, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	return token, ok, nil
}

// Lock blocks until the key is free, the wait budget runs out or ctx ends.
// The returned func releases the key.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	deadline := time.Now().Add(r.wait)
	for {
		token, ok, err := r.TryLock(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { _ = r.Unlock(context.Background(), key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

// Unlock removes the key if it is still held with token.
func (r *Redis) Unlock(ctx context.Context, key, token string) error {
	_, err := releaseScript.Run(ctx, r.Client, []string{lockKey(key)}, token).Result()
	if err == redis.Nil {
		return nil
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
