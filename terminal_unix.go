//go:build unix

package termevent

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// makeRaw puts the terminal into raw mode and returns a function restoring
// the previous state.
func makeRaw(fd int) (func() error, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, state) }, nil
}

// terminalSize returns the terminal dimensions.
func terminalSize(fd int) (width, height uint16, err error) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, err
	}
	return uint16(w), uint16(h), nil
}

// OpenTTY returns stdin when it is a terminal and /dev/tty otherwise, so
// input can still be read when stdin is a pipe. owned reports whether the
// caller must close the file.
func OpenTTY() (f *os.File, owned bool, err error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return os.Stdin, false, nil
	}
	f, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to open /dev/tty")
	}
	return f, true, nil
}
