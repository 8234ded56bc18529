package websocket

import (
	"testing"

	"github.com/google/uuid"
)

type fakeChannel struct {
	delivered [][]byte
	ready     bool
}

func (f *fakeChannel) Deliver(payload []byte) bool {
	if !f.ready {
		return false
	}
	f.delivered = append(f.delivered, payload)
	return true
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{ready: true}
}

func TestManagerRegisterLookup(t *testing.T) {
	m := NewManager()
	ch := newFakeChannel()
	m.Register(7, uuid.New(), ch)

	got, ok := m.Lookup(7)
	if !ok {
		t.Fatalf("expected channel for user 7")
	}
	if got != Channel(ch) {
		t.Fatalf("lookup returned a different channel")
	}
}

func TestManagerLookupAbsent(t *testing.T) {
	m := NewManager()
	if _, ok := m.Lookup(42); ok {
		t.Fatalf("expected no channel for unknown user")
	}
}

func TestManagerUnidentifiedNotRegistered(t *testing.T) {
	m := NewManager()
	m.Register(0, uuid.New(), newFakeChannel())
	if _, ok := m.Lookup(0); ok {
		t.Fatalf("connections without a user id must not be registered")
	}
}

func TestManagerLastWriterWins(t *testing.T) {
	m := NewManager()
	first := newFakeChannel()
	second := newFakeChannel()
	m.Register(7, uuid.New(), first)
	m.Register(7, uuid.New(), second)

	got, ok := m.Lookup(7)
	if !ok {
		t.Fatalf("expected channel for user 7")
	}
	if got != Channel(second) {
		t.Fatalf("expected the newer registration to win")
	}
}

func TestManagerUnregisterRemovesMapping(t *testing.T) {
	m := NewManager()
	connID := uuid.New()
	m.Register(7, connID, newFakeChannel())
	m.Unregister(7, connID)

	if _, ok := m.Lookup(7); ok {
		t.Fatalf("expected no channel after unregister")
	}
}

func TestManagerStaleCloseDoesNotEvictFresherRegistration(t *testing.T) {
	m := NewManager()
	staleID := uuid.New()
	freshID := uuid.New()
	fresh := newFakeChannel()

	m.Register(7, staleID, newFakeChannel())
	m.Register(7, freshID, fresh)

	// The stale connection's delayed close event arrives after the user
	// reconnected. It must not evict the fresh registration.
	m.Unregister(7, staleID)

	got, ok := m.Lookup(7)
	if !ok {
		t.Fatalf("fresh registration was evicted by a stale close")
	}
	if got != Channel(fresh) {
		t.Fatalf("lookup returned the wrong channel after stale close")
	}
}
