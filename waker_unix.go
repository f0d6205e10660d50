//go:build unix

package termevent

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// wakePipe is a self-pipe used to interrupt a blocked select().
// Each outstanding wake is exactly one byte in the pipe.
type wakePipe struct {
	r, w    int
	pending atomic.Bool
}

func newWakePipe() (*wakePipe, error) {
	r, w, err := newPipe()
	if err != nil {
		return nil, err
	}
	return &wakePipe{r: r, w: w}, nil
}

// wake writes the wake token unless one is already outstanding.
func (p *wakePipe) wake() error {
	if !p.pending.CompareAndSwap(false, true) {
		return nil
	}
	if _, err := unix.Write(p.w, []byte{1}); err != nil && err != unix.EAGAIN {
		p.pending.Store(false)
		return errors.Wrap(err, "failed to write wake token")
	}
	return nil
}

// consume takes one wake token out of the pipe. The flag is cleared first so
// a wake racing with consume leaves its own token behind instead of being lost.
func (p *wakePipe) consume() {
	p.pending.Store(false)
	var buf [1]byte
	_, _ = unix.Read(p.r, buf[:])
}

func (p *wakePipe) close() error {
	errR := unix.Close(p.r)
	errW := unix.Close(p.w)
	if errR != nil {
		return errR
	}
	return errW
}
