//go:build unix

package termevent

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/grindlemire/go-termevent/internal/debug"
)

// ttySource implements Source for POSIX terminals.
//
// It multiplexes three descriptors with select(): the tty itself, a pipe fed
// by SIGWINCH, and a wake pipe used to interrupt a blocked wait.
type ttySource struct {
	in     *os.File // held so the descriptor is not finalized while in use
	fd     int
	buf    []byte
	parser *parser
	resize *resizeSignal
	waker  *wakePipe
	size   sizeFunc
	closed atomic.Bool
}

var _ Source = (*ttySource)(nil)

func newPlatformSource(in *os.File, cfg sourceConfig) (Source, error) {
	fd := int(in.Fd())

	resize, err := newResizeSignal()
	if err != nil {
		return nil, err
	}
	waker, err := newWakePipe()
	if err != nil {
		resize.close()
		return nil, err
	}

	size := cfg.size
	if size == nil {
		size = func() (uint16, uint16, error) { return terminalSize(fd) }
	}

	debug.Log("source: tty fd=%d resize fd=%d wake fd=%d buffer=%d", fd, resize.r, waker.r, cfg.bufferSize)
	return &ttySource{
		in:     in,
		fd:     fd,
		buf:    make([]byte, cfg.bufferSize),
		parser: newParser(),
		resize: resize,
		waker:  waker,
		size:   size,
	}, nil
}

// TryRead implements Source.
func (s *ttySource) TryRead(timeout time.Duration) (Event, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if ev := s.parser.next(); ev != nil {
		return ev, nil
	}

	if pdebug.Enabled {
		g := pdebug.Marker("ttySource.TryRead (timeout %s)", timeout)
		defer g.End()
	}

	pt := newPollTimeout(timeout)
	fds := []int{s.fd, s.resize.r, s.waker.r}

	for {
		ready, err := selectReadable(fds, pt.leftover())
		if err != nil {
			return nil, errors.Wrap(err, "failed to wait for terminal input")
		}

		if ready[1] {
			s.resize.drain()
			w, h, err := s.size()
			if err != nil {
				return nil, errors.Wrap(err, "failed to query terminal size")
			}
			return ResizeEvent{Width: w, Height: h}, nil
		}

		if ready[0] {
			ev, err := s.readTTY()
			if err != nil {
				return nil, err
			}
			if ev != nil {
				return ev, nil
			}
		}

		if ready[2] {
			s.waker.consume()
			debug.Log("source: woken")
			return nil, ErrWoken
		}

		// Processing above can take a while; never overrun the caller's budget.
		if pt.elapsed() {
			return nil, nil
		}
	}
}

// readTTY reads one chunk from the tty and feeds it to the parser.
func (s *ttySource) readTTY() (Event, error) {
	n, err := unix.Read(s.fd, s.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read from terminal")
	}
	if n == 0 {
		return nil, errors.Wrap(io.EOF, "terminal input closed")
	}

	// A second, zero-timeout select tells a lone ESC at the end of this
	// chunk apart from the start of a sequence still in flight.
	more, err := selectReadable([]int{s.fd}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to wait for terminal input")
	}

	if pdebug.Enabled {
		pdebug.Printf("ttySource: read %d bytes (more=%t)", n, more[0])
	}
	s.parser.advance(s.buf[:n], more[0])
	return s.parser.next(), nil
}

// Wake implements Source.
func (s *ttySource) Wake() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.waker.wake()
}

// Close implements Source. The tty descriptor belongs to the caller and is
// left open.
func (s *ttySource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	errResize := s.resize.close()
	errWake := s.waker.close()
	if errResize != nil {
		return errors.Wrap(errResize, "failed to close resize pipe")
	}
	if errWake != nil {
		return errors.Wrap(errWake, "failed to close wake pipe")
	}
	return nil
}
