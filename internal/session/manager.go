package session

import (
	"sync"
	"time"
)

// State is the conversation step a sender is in.
type State string

const (
	StateGreeting          State = "greeting"
	StateCollectingAddress State = "collecting_address"
	StateConfirmingOrder   State = "confirming_order"
	StateHandlingComplaint State = "handling_complaint"
)

// Order is a partially built order collected over several messages.
type Order struct {
	Product  string
	Quantity int
	Address  string
}

// Session is per-sender conversational state. It lives for the whole process.
type Session struct {
	Sender    string
	State     State
	Order     *Order
	UpdatedAt time.Time
}

// Reset drops any order in progress and returns to the greeting state.
func (s *Session) Reset() {
	s.State = StateGreeting
	s.Order = nil
}

// Manager owns all sessions and serializes message processing per sender
// to prevent races when several messages arrive for the same phone number.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (m *Manager) entry(sender string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sender]
	if !ok {
		e = &entry{session: &Session{Sender: sender, State: StateGreeting, UpdatedAt: m.now()}}
		m.entries[sender] = e
	}
	return e
}

// Get returns the sender's session, creating it on first use. Repeated calls
// return the same pointer. Callers mutating it should use WithSession.
func (m *Manager) Get(sender string) *Session {
	return m.entry(sender).session
}

// WithSession runs fn while holding the sender's lock. Messages from the same
// sender are serialized; different senders run in parallel.
func (m *Manager) WithSession(sender string, fn func(*Session) error) error {
	e := m.entry(sender)

	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e.session)
	e.session.UpdatedAt = m.now()
	return err
}

// Len reports how many senders have a session.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
