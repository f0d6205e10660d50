//go:build unix

package termevent

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// fdSetSize is the number of descriptors a select(2) fd_set can hold.
const fdSetSize = 1024

// selectReadable performs a select() call on fds with timeout.
// Returns a slice parallel to fds where ready[i] is true if fds[i] is
// readable. Returns all false on timeout and when a signal interrupted the
// wait (EINTR); the caller re-checks its own deadline.
// A negative timeout blocks indefinitely.
func selectReadable(fds []int, timeout time.Duration) (ready []bool, err error) {
	var readFds unix.FdSet
	readFds.Zero()

	maxFd := -1
	for _, fd := range fds {
		if fd < 0 || fd >= fdSetSize {
			return nil, errors.Errorf("descriptor %d cannot be used with select", fd)
		}
		readFds.Set(fd)
		if fd > maxFd {
			maxFd = fd
		}
	}

	var tv *unix.Timeval
	if timeout >= 0 {
		tvVal := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &tvVal
	}
	// If timeout < 0, tv is nil which means block indefinitely

	ready = make([]bool, len(fds))
	n, err := unix.Select(maxFd+1, &readFds, nil, nil, tv)
	if err != nil {
		// EINTR is expected when signals arrive
		if err == unix.EINTR {
			return ready, nil
		}
		return nil, err
	}
	if n == 0 {
		return ready, nil // Timeout
	}

	for i, fd := range fds {
		ready[i] = readFds.IsSet(fd)
	}
	return ready, nil
}

// newPipe returns a non-blocking, close-on-exec pipe as (read, write).
func newPipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, errors.Wrap(err, "failed to create pipe")
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return -1, -1, errors.Wrap(err, "failed to make pipe non-blocking")
		}
	}
	return p[0], p[1], nil
}

// drainFd reads fd until it would block.
func drainFd(fd int) {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}
