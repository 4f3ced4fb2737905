package session

import (
	"sync"
	"testing"
	"time"
)

func TestGetIsIdempotent(t *testing.T) {
	m := NewManager()

	a := m.Get("971500000001")
	b := m.Get("971500000001")
	if a != b {
		t.Fatal("Get should return the same session for the same sender")
	}
	if a.State != StateGreeting {
		t.Fatalf("new session state = %s, want %s", a.State, StateGreeting)
	}
	if m.Get("971500000002") == a {
		t.Fatal("different senders must not share a session")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
}

func TestWithSessionMutatesSharedSession(t *testing.T) {
	m := NewManager()
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	err := m.WithSession("971500000001", func(s *Session) error {
		s.State = StateCollectingAddress
		s.Order = &Order{Product: "pizza", Quantity: 2}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	s := m.Get("971500000001")
	if s.State != StateCollectingAddress || s.Order == nil || s.Order.Product != "pizza" {
		t.Fatalf("session not updated: %+v", s)
	}
	if !s.UpdatedAt.Equal(fixed) {
		t.Fatalf("UpdatedAt = %v, want %v", s.UpdatedAt, fixed)
	}

	s.Reset()
	if s.State != StateGreeting || s.Order != nil {
		t.Fatalf("Reset left %+v", s)
	}
}

// TestWithSessionSerializesPerSender checks that concurrent messages from one
// sender never run their critical sections at the same time.
func TestWithSessionSerializesPerSender(t *testing.T) {
	m := NewManager()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
		count   int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.WithSession("971500000001", func(s *Session) error {
				mu.Lock()
				active++
				if active > 1 {
					overlap = true
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)
				count++

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if overlap {
		t.Fatal("critical sections for the same sender overlapped")
	}
	if count != workers {
		t.Fatalf("count = %d, want %d", count, workers)
	}
}
