package termevent

import (
	"sync"

	"github.com/pkg/errors"
)

// rawMode remembers the state needed to undo EnableRawMode.
var rawMode struct {
	mu      sync.Mutex
	restore func() error
}

// EnableRawMode switches the terminal behind fd into raw mode: no echo, no
// line buffering and no signal generation. Sources depend on it for
// byte-at-a-time input. Calling it again while enabled is a no-op.
func EnableRawMode(fd int) error {
	rawMode.mu.Lock()
	defer rawMode.mu.Unlock()

	if rawMode.restore != nil {
		return nil
	}
	restore, err := makeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "failed to enable raw mode")
	}
	rawMode.restore = restore
	return nil
}

// DisableRawMode restores the terminal state saved by EnableRawMode.
func DisableRawMode() error {
	rawMode.mu.Lock()
	defer rawMode.mu.Unlock()

	if rawMode.restore == nil {
		return nil
	}
	if err := rawMode.restore(); err != nil {
		return errors.Wrap(err, "failed to disable raw mode")
	}
	rawMode.restore = nil
	return nil
}

// IsRawModeEnabled reports whether EnableRawMode is in effect.
func IsRawModeEnabled() bool {
	rawMode.mu.Lock()
	defer rawMode.mu.Unlock()
	return rawMode.restore != nil
}

// Size returns the terminal dimensions in cells.
func Size(fd int) (width, height uint16, err error) {
	return terminalSize(fd)
}
