package termevent

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// Source reads decoded events from a terminal input device.
// There is one implementation per platform family, picked by NewSource.
type Source interface {
	// TryRead returns at most one decoded event.
	// Returns (nil, nil) if timeout expires first.
	// A timeout of 0 performs a non-blocking check.
	// A negative timeout blocks until an event arrives or Wake is called.
	// An event already decoded is returned without waiting, even if a wake is pending.
	TryRead(timeout time.Duration) (Event, error)

	// Wake interrupts a TryRead blocked in another goroutine, which then
	// returns ErrWoken. At most one wake is outstanding: repeated calls before
	// the waiter observes it collapse into one. A wake with no waiter is
	// observed by the next TryRead that has to wait.
	Wake() error

	// Close releases the source's descriptors and handles.
	Close() error
}

var (
	// ErrWoken is returned by a blocking read that Wake interrupted before any
	// event was decoded.
	ErrWoken = errors.New("termevent: woken before an event arrived")

	// ErrClosed is returned when a closed source or queue is used.
	ErrClosed = errors.New("termevent: source closed")
)

// ttyBufferSize is the default size of a single tty read. Terminals rarely
// hand over more than ~1KB per read, so one read holds a whole burst.
const ttyBufferSize = 1204

// sizeFunc reports the current terminal size.
type sizeFunc func() (width, height uint16, err error)

type sourceConfig struct {
	bufferSize int
	size       sizeFunc
}

// SourceOption is a functional option for configuring a Source.
type SourceOption func(*sourceConfig) error

// WithBufferSize sets how many bytes a single tty read may return.
// Default is 1204. Must be at least 16.
func WithBufferSize(n int) SourceOption {
	return func(c *sourceConfig) error {
		if n < 16 {
			return errors.Errorf("buffer size must be at least 16 bytes, got %d", n)
		}
		c.bufferSize = n
		return nil
	}
}

// WithSizeFunc overrides how the source queries the terminal size when it
// synthesizes resize events. Default queries the input device itself.
func WithSizeFunc(fn func() (width, height uint16, err error)) SourceOption {
	return func(c *sourceConfig) error {
		if fn == nil {
			return errors.New("size func must not be nil")
		}
		c.size = fn
		return nil
	}
}

// NewSource creates a Source for the given terminal input.
// The terminal should already be in raw mode.
func NewSource(in *os.File, opts ...SourceOption) (Source, error) {
	cfg := sourceConfig{bufferSize: ttyBufferSize}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newPlatformSource(in, cfg)
}
