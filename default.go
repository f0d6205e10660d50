package termevent

import (
	"io"
	"sync"
	"time"
)

var defaultQueue struct {
	once  sync.Once
	queue *Queue
	err   error
}

// Default returns the process-wide queue reading from the controlling
// terminal: stdin when it is a terminal, the terminal device otherwise.
// It is created on first use.
func Default() (*Queue, error) {
	defaultQueue.once.Do(func() {
		in, _, err := OpenTTY()
		if err != nil {
			defaultQueue.err = err
			return
		}
		source, err := NewSource(in)
		if err != nil {
			defaultQueue.err = err
			return
		}
		defaultQueue.queue = NewQueue(source)
	})
	return defaultQueue.queue, defaultQueue.err
}

// Poll calls Poll on the default queue.
func Poll(timeout time.Duration) (bool, error) {
	q, err := Default()
	if err != nil {
		return false, err
	}
	return q.Poll(timeout)
}

// Read calls Read on the default queue.
func Read() (Event, error) {
	q, err := Default()
	if err != nil {
		return nil, err
	}
	return q.Read()
}

// Wake calls Wake on the default queue.
func Wake() error {
	q, err := Default()
	if err != nil {
		return err
	}
	return q.Wake()
}

// CursorPosition calls CursorPosition on the default queue.
func CursorPosition(w io.Writer) (col, row uint16, err error) {
	q, err := Default()
	if err != nil {
		return 0, 0, err
	}
	return q.CursorPosition(w)
}
