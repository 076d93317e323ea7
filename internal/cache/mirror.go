package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMirrorMiss is returned when a mirrored key is absent from Redis.
var ErrMirrorMiss = errors.New("cache mirror: key not found")

const mirrorKeyPrefix = "aurashop:cache:"

// Mirror persists designated cache keys through Redis so they survive process
// restarts. Only keys a caller explicitly routes here are mirrored; the
// in-process cache stays authoritative for everything else.
type Mirror struct {
	client *redis.Client
}

func NewMirror(client *redis.Client) *Mirror {
	return &Mirror{client: client}
}

// Persist stores a JSON-encoded copy of value under the mirrored key.
func (m *Mirror) Persist(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal mirrored value: %w", err)
	}

	if err := m.client.Set(ctx, mirrorKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("persist key %s: %w", key, err)
	}
	return nil
}

// Load decodes the mirrored value into dest, or ErrMirrorMiss.
func (m *Mirror) Load(ctx context.Context, key string, dest any) error {
	data, err := m.client.Get(ctx, mirrorKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return ErrMirrorMiss
	}
	if err != nil {
		return fmt.Errorf("load key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal mirrored value: %w", err)
	}
	return nil
}

// Delete removes a mirrored key.
func (m *Mirror) Delete(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, mirrorKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	return nil
}
