package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns all live baskets, keyed by an opaque session token that the
// client echoes back in the X-Selection-Session header. Baskets that are not
// touched within the TTL are swept away.
type Manager struct {
	mu      sync.Mutex
	baskets map[string]*Basket
	ttl     time.Duration
	done    chan struct{}
}

// NewManager creates a Manager sweeping idle baskets after ttl and starts
// the background sweeper.
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		baskets: make(map[string]*Basket),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Open creates a fresh basket for a beach and date and returns its session
// token.
func (m *Manager) Open(beachID uint64, date time.Time) (string, *Basket) {
	token := uuid.NewString()
	b := NewBasket(beachID, date)
	m.mu.Lock()
	m.baskets[token] = b
	m.mu.Unlock()
	return token, b
}

// Get returns the basket for a session token, or nil when the session is
// unknown or expired.
func (m *Manager) Get(token string) *Basket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baskets[token]
}

// With runs fn while holding the manager lock, so handler read-modify-write
// sequences on one basket do not interleave. fn receives nil when the
// session is unknown.
func (m *Manager) With(token string, fn func(b *Basket) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.baskets[token])
}

// Snapshot copies the basket state for a token under the lock. ok is false
// when the session is unknown or expired.
func (m *Manager) Snapshot(token string) (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.baskets[token]
	if b == nil {
		return View{}, false
	}
	return b.View(), true
}

// Close discards a basket, typically right after its reservation committed.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	delete(m.baskets, token)
	m.mu.Unlock()
}

// Stop terminates the background sweeper.
func (m *Manager) Stop() { close(m.done) }

func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for token, b := range m.baskets {
				if now.Sub(b.touchedAt) > m.ttl {
					delete(m.baskets, token)
				}
			}
			m.mu.Unlock()
		}
	}
}
