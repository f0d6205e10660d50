package termevent

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// cursorPositionQuery asks the terminal to report the cursor position
// (DSR 6). The reply is ESC [ row ; col R.
const cursorPositionQuery = "\x1b[6n"

// cursorReplyTimeout bounds how long CursorPosition waits for the reply.
var cursorReplyTimeout = 2 * time.Second

// ErrCursorTimeout is returned when the terminal does not answer a cursor
// position query in time.
var ErrCursorTimeout = errors.New("termevent: cursor position report did not arrive in time")

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// CursorPosition writes a cursor position query to w, which should be the
// terminal's output, and waits for the reply on the queue's source. The top
// left cell is (0, 0).
//
// Raw mode must be enabled, otherwise the reply is echoed and line buffered.
// Events decoded while waiting for the reply are discarded, so calling this
// while another goroutine consumes the same queue loses input. An event that
// Poll already reported is kept for the next Read.
func (q *Queue) CursorPosition(w io.Writer) (col, row uint16, err error) {
	if _, err := io.WriteString(w, cursorPositionQuery); err != nil {
		return 0, 0, errors.Wrap(err, "failed to write cursor position query")
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return 0, 0, errors.Wrap(err, "failed to flush cursor position query")
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	// An event Poll already reported arrived before the query and still
	// belongs to the next Read.
	held := q.pending
	q.pending = nil
	defer func() { q.pending = held }()

	ok, err := q.pollLocked(cursorReplyTimeout, isCursorPosition)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, ErrCursorTimeout
	}

	ev := q.pending.(cursorPositionEvent)
	q.pending = nil
	return ev.Col, ev.Row, nil
}
