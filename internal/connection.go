package internal

import (
	"context"
	"sync"
)

// ConnectionManager handles thread-safe connection initialization for the Reddit client.
// Concurrent callers share a single attempt. A failed attempt is not cached:
// the next call to Initialize runs fn again.
type ConnectionManager struct {
	mu    sync.Mutex
	ready bool
	err   error
}

// NewConnectionManager creates a new ConnectionManager instance ready for use.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{}
}

// Initialize runs fn unless a previous call already succeeded. Calls are
// serialized, so concurrent callers wait for the running attempt and then
// either see its success or make their own attempt.
func (cm *ConnectionManager) Initialize(ctx context.Context, fn func(context.Context) error) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ready {
		return nil
	}

	cm.err = fn(ctx)
	cm.ready = cm.err == nil
	return cm.err
}

// Error returns the error from the last initialization attempt, if any.
func (cm *ConnectionManager) Error() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.err
}

// IsInitialized returns true once an initialization attempt has succeeded.
func (cm *ConnectionManager) IsInitialized() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ready
}

// Reset forgets a successful initialization so the next call runs again.
func (cm *ConnectionManager) Reset() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.ready = false
	cm.err = nil
}
