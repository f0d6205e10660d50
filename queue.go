package termevent

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"

	"github.com/grindlemire/go-termevent/internal/debug"
)

// Queue is the synchronization point between consumers and a Source.
//
// Only one caller drains the source at a time; concurrent Poll and Read
// calls serialize on an internal lock. Wake never takes that lock, so it can
// interrupt a caller blocked inside the source.
type Queue struct {
	mu      sync.Mutex
	source  Source
	pending Event // decoded by Poll, handed out by the next Read
	closed  atomic.Bool
}

// NewQueue creates a Queue draining source. The queue takes ownership of the
// source and closes it in Close.
func NewQueue(source Source) *Queue {
	return &Queue{source: source}
}

// Poll reports whether an event is available within timeout.
// If it returns true, the next Read returns that event without blocking.
// A timeout of 0 performs a non-blocking check.
// A negative timeout blocks until an event arrives or Wake is called.
// Returns (false, nil) on timeout and when woken, and ErrClosed once Close
// has been called.
func (q *Queue) Poll(timeout time.Duration) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ok, err := q.pollLocked(timeout, isCanonical)
	if errors.Is(err, ErrWoken) {
		return false, nil
	}
	return ok, err
}

// Read blocks until an event is available and returns it.
// Returns ErrWoken if Wake interrupts the wait before an event is decoded,
// and ErrClosed once Close has been called.
func (q *Queue) Read() (Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.closed.Load() {
			return nil, ErrClosed
		}
		if ev := q.pending; ev != nil {
			q.pending = nil
			return ev, nil
		}
		if _, err := q.pollLocked(-1, isCanonical); err != nil {
			return nil, err
		}
	}
}

// Wake interrupts a Poll or Read blocked in another goroutine. It is safe to
// call from any goroutine. An event that was already decoded is still
// delivered; only waits are cut short.
func (q *Queue) Wake() error {
	if q.closed.Load() {
		return ErrClosed
	}
	return q.source.Wake()
}

// Close wakes any blocked caller and releases the source. Callers blocked
// in Poll or Read, and any that arrive later, get ErrClosed.
func (q *Queue) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	// The flag is set before the wake so a woken caller cannot go back to
	// waiting while holding q.mu.
	if err := q.source.Wake(); err != nil && !errors.Is(err, ErrClosed) {
		debug.Log("queue: wake on close: %v", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	return q.source.Close()
}

// EnableMouseCapture turns on mouse reporting. Sources that manage mouse
// input through the device do so directly; otherwise the escape sequence is
// written to w, which should be the terminal's output.
func (q *Queue) EnableMouseCapture(w io.Writer) error {
	if c, ok := q.source.(mouseCapturer); ok {
		return c.enableMouseCapture()
	}
	return writeMouseCapture(w, true)
}

// DisableMouseCapture undoes EnableMouseCapture.
func (q *Queue) DisableMouseCapture(w io.Writer) error {
	if c, ok := q.source.(mouseCapturer); ok {
		return c.disableMouseCapture()
	}
	return writeMouseCapture(w, false)
}

// pollLocked waits up to timeout for an event accepted by filter and stores
// it in q.pending. Events the filter rejects are dropped: internal-only
// events never reach ordinary consumers, and a synchronous query does not
// keep the stream it skips over. Caller must hold q.mu.
func (q *Queue) pollLocked(timeout time.Duration, filter func(Event) bool) (bool, error) {
	if q.closed.Load() {
		return false, ErrClosed
	}
	if q.pending != nil {
		if filter(q.pending) {
			return true, nil
		}
		q.pending = nil
	}

	if pdebug.Enabled {
		g := pdebug.Marker("Queue.poll (timeout %s)", timeout)
		defer g.End()
	}

	pt := newPollTimeout(timeout)
	for {
		ev, err := q.source.TryRead(pt.leftover())
		if errors.Is(err, ErrWoken) && q.closed.Load() {
			return false, ErrClosed
		}
		if err != nil {
			return false, err
		}
		if ev != nil {
			if filter(ev) {
				q.pending = ev
				return true, nil
			}
			// Keep draining what is already decoded even once the budget
			// is spent.
			debug.Log("queue: dropping %v", ev)
			continue
		}
		if pt.elapsed() {
			return false, nil
		}
	}
}
