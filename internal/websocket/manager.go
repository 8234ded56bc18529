package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Channel is the delivery side of one live connection. Deliver enqueues the
// payload without blocking and reports false when the connection is not in a
// state to accept it (buffer full or already closed).
type Channel interface {
	Deliver(payload []byte) bool
}

type entry struct {
	connID uuid.UUID
	ch     Channel
}

// Manager maps a user id to exactly one active delivery channel. It holds no
// durable state: the map is rebuilt from empty on every process start and
// entries are removed on disconnect. Fiber handlers run on multiple
// goroutines, so the map is guarded by a mutex.
type Manager struct {
	mu     sync.RWMutex
	byUser map[int64]entry
}

// NewManager creates an empty connection registry.
func NewManager() *Manager {
	return &Manager{byUser: make(map[int64]entry)}
}

// Register maps userID to the given channel. A second registration for the
// same user silently replaces the old mapping (at most one active channel
// per user, last writer wins); the prior channel is not closed here and
// stays open at the transport level until it closes itself.
func (m *Manager) Register(userID int64, connID uuid.UUID, ch Channel) {
	if userID == 0 {
		return
	}
	m.mu.Lock()
	m.byUser[userID] = entry{connID: connID, ch: ch}
	m.mu.Unlock()
	log.Printf("websocket: connection %s registered for user %d", connID, userID)
}

// Unregister removes the mapping for userID, but only while it still points
// at the closing connection. A delayed close event from a stale connection
// must not evict a fresher registration for the same user.
func (m *Manager) Unregister(userID int64, connID uuid.UUID) {
	if userID == 0 {
		return
	}
	m.mu.Lock()
	if e, ok := m.byUser[userID]; ok && e.connID == connID {
		delete(m.byUser, userID)
	}
	m.mu.Unlock()
	log.Printf("websocket: connection %s closed for user %d", connID, userID)
}

// Lookup returns the user's active channel. Absence means the recipient is
// offline and real-time delivery is skipped.
func (m *Manager) Lookup(userID int64) (Channel, bool) {
	m.mu.RLock()
	e, ok := m.byUser[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.ch, true
}
