//go:build windows

package termevent

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/grindlemire/go-termevent/internal/debug"
)

// consoleSource implements Source for the Windows console.
//
// It waits on the console input handle together with an auto-reset event.
// The event is signaled by Wake; an auto-reset event holds at most one
// pending release, so repeated wakes never pile up.
type consoleSource struct {
	in      *os.File
	handle  windows.Handle
	out     windows.Handle
	wake    windows.Handle
	records []rawInputRecord
	events  []Event
	size    sizeFunc
	capture captureState
	closed  atomic.Bool
}

var (
	_ Source        = (*consoleSource)(nil)
	_ mouseCapturer = (*consoleSource)(nil)
)

func newPlatformSource(in *os.File, cfg sourceConfig) (Source, error) {
	out, err := openConsoleOutput()
	if err != nil {
		return nil, err
	}
	wake, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		windows.CloseHandle(out)
		return nil, errors.Wrap(err, "failed to create wake event")
	}

	s := &consoleSource{
		in:     in,
		handle: windows.Handle(in.Fd()),
		out:    out,
		wake:   wake,
		// A record is 20 bytes; size the batch like the tty buffer.
		records: make([]rawInputRecord, max(cfg.bufferSize/20, 1)),
		size:    cfg.size,
	}
	if s.size == nil {
		s.size = func() (uint16, uint16, error) { return terminalSize(int(out)) }
	}
	debug.Log("source: console handle=%v", s.handle)
	return s, nil
}

// TryRead implements Source.
func (s *consoleSource) TryRead(timeout time.Duration) (Event, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if ev := s.pop(); ev != nil {
		return ev, nil
	}

	if pdebug.Enabled {
		g := pdebug.Marker("consoleSource.TryRead (timeout %s)", timeout)
		defer g.End()
	}

	pt := newPollTimeout(timeout)
	handles := []windows.Handle{s.handle, s.wake}

	for {
		millis := uint32(windows.INFINITE)
		if left := pt.leftover(); left >= 0 {
			millis = uint32(left.Milliseconds())
		}

		result, err := windows.WaitForMultipleObjects(handles, false, millis)
		if err != nil {
			return nil, errors.Wrap(err, "failed to wait for console input")
		}
		signaled, err := waitOutcome(result, len(handles))
		if err != nil {
			return nil, err
		}

		switch signaled {
		case -1:
			return nil, nil
		case 0:
			if err := s.readRecords(); err != nil {
				return nil, err
			}
			if ev := s.pop(); ev != nil {
				return ev, nil
			}
		case 1:
			debug.Log("source: woken")
			return nil, ErrWoken
		}

		if pt.elapsed() {
			return nil, nil
		}
	}
}

// readRecords reads every record the console has buffered and queues the
// decoded events.
func (s *consoleSource) readRecords() error {
	pending, err := numberOfConsoleInputEvents(s.handle)
	if err != nil {
		return errors.Wrap(err, "failed to count console input records")
	}
	if pending == 0 {
		return nil
	}

	n, err := readConsoleInput(s.handle, s.records[:min(int(pending), len(s.records))])
	if err != nil {
		return errors.Wrap(err, "failed to read console input")
	}

	for _, raw := range s.records[:n] {
		ev, err := decodeRecord(raw.decode(), s.windowTop)
		if err != nil {
			return errors.Wrap(err, "failed to query console window")
		}
		if _, ok := ev.(ResizeEvent); ok {
			// The record carries the buffer size; report the visible window.
			w, h, err := s.size()
			if err != nil {
				return errors.Wrap(err, "failed to query terminal size")
			}
			ev = ResizeEvent{Width: w, Height: h}
		}
		if ev != nil {
			s.events = append(s.events, ev)
		}
	}
	return nil
}

func (s *consoleSource) windowTop() (int16, error) {
	info, err := screenBufferInfo(s.out)
	if err != nil {
		return 0, err
	}
	return info.Window.Top, nil
}

func (s *consoleSource) pop() Event {
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[0]
	s.events[0] = nil
	s.events = s.events[1:]
	return ev
}

// Wake implements Source.
func (s *consoleSource) Wake() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := windows.SetEvent(s.wake); err != nil {
		return errors.Wrap(err, "failed to signal wake event")
	}
	return nil
}

func (s *consoleSource) enableMouseCapture() error {
	return s.capture.enable(s.getMode, s.setMode)
}

func (s *consoleSource) disableMouseCapture() error {
	return s.capture.disable(s.setMode)
}

func (s *consoleSource) getMode() (uint32, error) {
	var mode uint32
	err := windows.GetConsoleMode(s.handle, &mode)
	return mode, err
}

func (s *consoleSource) setMode(mode uint32) error {
	return windows.SetConsoleMode(s.handle, mode)
}

// Close implements Source. The console input handle belongs to the caller
// and is left open.
func (s *consoleSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	errWake := windows.CloseHandle(s.wake)
	errOut := windows.CloseHandle(s.out)
	if errWake != nil {
		return errors.Wrap(errWake, "failed to close wake event")
	}
	if errOut != nil {
		return errors.Wrap(errOut, "failed to close console output")
	}
	return nil
}
