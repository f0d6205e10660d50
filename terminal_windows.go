//go:build windows

package termevent

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// makeRaw puts the Windows console into raw-ish mode and returns a function
// restoring the previous mode. Virtual terminal input stays off: the console
// source decodes native input records, not escape sequences.
func makeRaw(fd int) (func() error, error) {
	h := windows.Handle(fd)

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return nil, err
	}

	raw := mode
	raw &^= windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT | windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	raw |= windows.ENABLE_EXTENDED_FLAGS | windows.ENABLE_WINDOW_INPUT

	if err := windows.SetConsoleMode(h, raw); err != nil {
		return nil, err
	}

	return func() error { return windows.SetConsoleMode(h, mode) }, nil
}

// terminalSize returns the visible window dimensions of the console screen
// buffer behind fd.
func terminalSize(fd int) (width, height uint16, err error) {
	info, err := screenBufferInfo(windows.Handle(fd))
	if err != nil {
		return 0, 0, err
	}
	width = uint16(info.Window.Right - info.Window.Left + 1)
	height = uint16(info.Window.Bottom - info.Window.Top + 1)
	return width, height, nil
}

func screenBufferInfo(h windows.Handle) (*windows.ConsoleScreenBufferInfo, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// openConsoleOutput opens the active screen buffer regardless of where
// stdout points.
func openConsoleOutput() (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString("CONOUT$")
	if err != nil {
		return windows.InvalidHandle, err
	}
	h, err := windows.CreateFile(name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return windows.InvalidHandle, errors.Wrap(err, "failed to open CONOUT$")
	}
	return h, nil
}

// OpenTTY returns stdin when it is a console and CONIN$ otherwise. owned
// reports whether the caller must close the file.
func OpenTTY() (f *os.File, owned bool, err error) {
	var mode uint32
	if windows.GetConsoleMode(windows.Handle(os.Stdin.Fd()), &mode) == nil {
		return os.Stdin, false, nil
	}
	f, err = os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to open CONIN$")
	}
	return f, true, nil
}
