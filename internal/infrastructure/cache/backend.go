// Package cache implementa el CacheGateway: memoización de consultas
// analíticas con invalidación por tag, sobre Redis o memoria.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend almacenamiento clave-valor con TTL. Las dos implementaciones deben
// ser seguras bajo acceso concurrente desde muchos handlers.
type Backend interface {
	// Get devuelve (valor, encontrado). Una entrada expirada cuenta como no
	// encontrada.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Incr incrementa un contador persistente (generaciones de tag) y
	// devuelve el valor nuevo. Sin TTL: las generaciones no expiran.
	Incr(ctx context.Context, key string) (int64, error)
	// GetCounter lee un contador; ausente → 0.
	GetCounter(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, key string) error
}

// RedisBackend envuelve go-redis.
type RedisBackend struct{ client *redis.Client }

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisBackend) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisBackend) GetCounter(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisBackend) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// MemoryBackend caché en memoria con TTL para desarrollo y tests. En
// despliegues multi-instancia la invalidación por tag solo es coherente con
// Redis; memoria queda para una sola instancia.
type MemoryBackend struct {
	mu       sync.Mutex
	items    map[string]memItem
	counters map[string]int64
}

type memItem struct {
	value     string
	expiresAt time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items:    map[string]memItem{},
		counters: map[string]int64{},
	}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	return item.value, true, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
	m.items[key] = memItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryBackend) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *MemoryBackend) GetCounter(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key], nil
}

func (m *MemoryBackend) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryBackend) cleanupLocked() {
	now := time.Now()
	for k, v := range m.items {
		if now.After(v.expiresAt) {
			delete(m.items, k)
		}
	}
}

// NewBackend intenta Redis y cae a memoria si no hay conexión.
func NewBackend(ctx context.Context, client *redis.Client) Backend {
	if client != nil {
		if err := client.Ping(ctx).Err(); err == nil {
			return &RedisBackend{client: client}
		}
	}
	return NewMemoryBackend()
}
