package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryRunLock is the single-process fallback for deployments without
// Redis. Leases expire on read, no background cleanup.
type InMemoryRunLock struct {
	mu     sync.Mutex
	leases map[string]time.Time
}

// NewInMemoryRunLock creates an in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{leases: make(map[string]time.Time)}
}

// Acquire takes the named lease unless an unexpired one exists
func (l *InMemoryRunLock) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiresAt, held := l.leases[name]; held && time.Now().Before(expiresAt) {
		return false, nil
	}
	l.leases[name] = time.Now().Add(ttl)
	return true, nil
}

// Release drops the named lease
func (l *InMemoryRunLock) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.leases, name)
	return nil
}
