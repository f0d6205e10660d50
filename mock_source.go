package termevent

import (
	"sync"
	"time"
)

// MockSource is a Source for testing code that consumes a Queue.
// Events are returned in order; when none are left TryRead waits for
// AddEvents, Wake or the timeout like a real source would.
type MockSource struct {
	mu     sync.Mutex
	events []Event
	reads  int
	closed bool
	added  chan struct{}
	wake   chan struct{}
}

var _ Source = (*MockSource)(nil)

// NewMockSource creates a MockSource with the given events.
func NewMockSource(events ...Event) *MockSource {
	return &MockSource{
		events: events,
		added:  make(chan struct{}, 1),
		wake:   make(chan struct{}, 1),
	}
}

// TryRead implements Source.
func (m *MockSource) TryRead(timeout time.Duration) (Event, error) {
	pt := newPollTimeout(timeout)
	for {
		m.mu.Lock()
		m.reads++
		if m.closed {
			m.mu.Unlock()
			return nil, ErrClosed
		}
		if len(m.events) > 0 {
			ev := m.events[0]
			m.events = m.events[1:]
			m.mu.Unlock()
			return ev, nil
		}
		m.mu.Unlock()

		if ev, err, done := m.wait(pt.leftover()); done {
			return ev, err
		}
	}
}

// wait blocks until something happens. done is false when new events were
// added and TryRead should look again.
func (m *MockSource) wait(left time.Duration) (ev Event, err error, done bool) {
	var timeout <-chan time.Time
	switch {
	case left == 0:
		select {
		case <-m.wake:
			return nil, ErrWoken, true
		default:
			return nil, nil, true
		}
	case left > 0:
		timer := time.NewTimer(left)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-m.wake:
		return nil, ErrWoken, true
	case <-m.added:
		return nil, nil, false
	case <-timeout:
		return nil, nil, true
	}
}

// Wake implements Source. At most one wake is outstanding.
func (m *MockSource) Wake() error {
	select {
	case m.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close implements Source.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// AddEvents adds more events to the queue and wakes a waiting TryRead.
func (m *MockSource) AddEvents(events ...Event) {
	m.mu.Lock()
	m.events = append(m.events, events...)
	m.mu.Unlock()

	select {
	case m.added <- struct{}{}:
	default:
	}
}

// Remaining returns the number of events yet to be returned.
func (m *MockSource) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// Reads returns how many times TryRead looked for an event.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
