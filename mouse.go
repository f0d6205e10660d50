package termevent

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Escape sequences that turn terminal mouse reporting on and off: normal
// tracking (1000), button-event tracking (1002), urxvt (1015) and SGR (1006)
// encodings.
const (
	EnableMouseCaptureSeq  = "\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h"
	DisableMouseCaptureSeq = "\x1b[?1006l\x1b[?1015l\x1b[?1002l\x1b[?1000l"
)

// ErrCaptureNotEnabled is returned when mouse capture is disabled on a
// console that never had it enabled, so there is no mode to restore.
var ErrCaptureNotEnabled = errors.New("termevent: mouse capture was never enabled")

// mouseCapturer is implemented by sources that toggle mouse reporting
// through the device itself instead of escape sequences.
type mouseCapturer interface {
	enableMouseCapture() error
	disableMouseCapture() error
}

// writeMouseCapture writes the enable or disable sequence to w.
func writeMouseCapture(w io.Writer, enable bool) error {
	seq := DisableMouseCaptureSeq
	if enable {
		seq = EnableMouseCaptureSeq
	}
	if _, err := io.WriteString(w, seq); err != nil {
		return errors.Wrap(err, "failed to write mouse capture sequence")
	}
	return nil
}

// consoleCaptureMode is ENABLE_MOUSE_INPUT | ENABLE_EXTENDED_FLAGS |
// ENABLE_WINDOW_INPUT.
const consoleCaptureMode uint32 = 0x0010 | 0x0080 | 0x0008

// captureState remembers the console mode that was active before mouse
// capture was first enabled. The saved value is written once and only read
// afterwards.
type captureState struct {
	mu    sync.Mutex
	saved uint32
	ok    bool
}

// enable saves the current mode on first use and applies the capture mode.
func (c *captureState) enable(get func() (uint32, error), set func(uint32) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ok {
		mode, err := get()
		if err != nil {
			return errors.Wrap(err, "failed to read console mode")
		}
		c.saved, c.ok = mode, true
	}
	if err := set(consoleCaptureMode); err != nil {
		return errors.Wrap(err, "failed to enable mouse capture")
	}
	return nil
}

// disable restores the mode saved by the first enable.
func (c *captureState) disable(set func(uint32) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ok {
		return ErrCaptureNotEnabled
	}
	if err := set(c.saved); err != nil {
		return errors.Wrap(err, "failed to restore console mode")
	}
	return nil
}
