package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// EnvVar names the environment variable holding the log file path.
const EnvVar = "TERMEVENT_DEBUG"

var (
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	initOnce sync.Once
	envErr   error
)

// Init opens path for appending and routes all subsequent messages to it.
// A previously opened log file is closed.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked(path)
}

// initLocked does the actual init work. Caller must hold mu.
func initLocked(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create log directory")
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to open debug log")
	}

	closeLocked()
	out, closer = f, f
	return nil
}

// SetOutput routes messages to w. A nil w disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	out = w
}

// Close closes the debug log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	var err error
	if closer != nil {
		err = closer.Close()
	}
	out, closer = nil, nil
	return err
}

// Enabled reports whether messages are currently being written anywhere.
func Enabled() bool {
	initFromEnv()
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Log writes a message to the debug log with a timestamp.
func Log(format string, args ...any) {
	initFromEnv()

	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// initFromEnv opens the file named by EnvVar the first time logging is used.
func initFromEnv() {
	initOnce.Do(func() {
		path := os.Getenv(EnvVar)
		if path == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if out == nil {
			if err := initLocked(path); err != nil {
				envErr = errors.Wrapf(err, "%s=%s", EnvVar, path)
			}
		}
	})
}

// Err reports why the log file named by EnvVar could not be opened. It is nil
// when the variable is unset or the file opened fine.
func Err() error {
	initFromEnv()
	mu.Lock()
	defer mu.Unlock()
	return envErr
}
