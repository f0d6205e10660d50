//go:build unix

package termevent

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// resizeSignal turns SIGWINCH deliveries into readability of a pipe so the
// signal can sit in the same select() as the tty and the wake pipe.
type resizeSignal struct {
	r, w int
	ch   chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup
}

func newResizeSignal() (*resizeSignal, error) {
	r, w, err := newPipe()
	if err != nil {
		return nil, err
	}

	s := &resizeSignal{
		r:    r,
		w:    w,
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(s.ch, unix.SIGWINCH)

	s.wg.Add(1)
	go s.forward()
	return s, nil
}

func (s *resizeSignal) forward() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.ch:
			// A full pipe already signals readability.
			_, _ = unix.Write(s.w, []byte{1})
		}
	}
}

// drain clears every pending notification. Several signals that arrived
// before the source got around to them collapse into one resize.
func (s *resizeSignal) drain() {
	drainFd(s.r)
}

func (s *resizeSignal) close() error {
	signal.Stop(s.ch)
	close(s.done)
	s.wg.Wait()

	errR := unix.Close(s.r)
	errW := unix.Close(s.w)
	if errR != nil {
		return errR
	}
	return errW
}
