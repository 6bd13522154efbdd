package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// MemoryBackend keeps carts in process memory. Lost on restart.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

func (m *MemoryBackend) Load(_ context.Context, sid string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[sid]
	if !ok {
		return nil, ErrNoCart
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryBackend) Save(_ context.Context, sid string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid] = append([]byte(nil), b...)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}

// RedisBackend stores each cart as a string under cart:{sid}. Every save
// refreshes the TTL so idle carts expire.
type RedisBackend struct {
	Redis *redis.Client
}

func (r *RedisBackend) Load(ctx context.Context, sid string) ([]byte, error) {
	b, err := r.Redis.Get(ctx, fmt.Sprintf(redisx.KeyCart, sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCart
	}
	return b, err
}

func (r *RedisBackend) Save(ctx context.Context, sid string, b []byte) error {
	return r.Redis.Set(ctx, fmt.Sprintf(redisx.KeyCart, sid), b, redisx.TTLCart).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, sid string) error {
	return r.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCart, sid)).Err()
}
