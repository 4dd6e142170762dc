// Package kv defines the key-value persistence collaborator used for local
// cart and order state, plus an in-memory backend.
package kv

import (
	"context"
	"strings"
	"sync"
)

// Well-known keys, scoped per owner with Key.
const (
	KeyCart            = "cart"
	KeyLastOrder       = "order"
	KeyDeliveryContact = "deliveryContact"
	KeyUserToken       = "userToken"
)

// Store is the asynchronous key-value surface the cart engine persists through.
// Get reports found=false for an absent key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger exposes the readiness surface of a backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Key builds a namespaced key such as "brewcart:local:cart".
func Key(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}

// Memory keeps values in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}
