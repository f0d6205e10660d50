// Package main provides termevent, a tool that prints terminal input events
// as they are decoded.
//
// Usage:
//
//	termevent [--mouse | --no-mouse] [--poll=1s] [--config=FILE] [--cursor-key=c] [--quit-key=q] [--debug=FILE]
//
// Each event is printed on its own line. A dot is printed whenever a poll
// interval passes without input. Pressing the cursor key also prints the
// cursor position; Esc, Ctrl+C or the quit key exits.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-termevent"
	"github.com/grindlemire/go-termevent/internal/debug"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	var opts options
	if err := opts.parse(args); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		// go-flags already printed its own errors.
		if _, ok := err.(*flags.Error); !ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}

	s, err := opts.settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if opts.OptDebug != "" {
		if err := debug.Init(opts.OptDebug); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer debug.Close()
	} else if err := debug.Err(); err != nil {
		// Still cooked mode here, so the warning lands on its own line.
		fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// run sets up the terminal and prints events until the user quits or ctx is
// canceled. Terminal state is restored on every return path.
func run(ctx context.Context, s settings) error {
	in, owned, err := termevent.OpenTTY()
	if err != nil {
		return err
	}
	if owned {
		defer in.Close()
	}

	if err := termevent.EnableRawMode(int(in.Fd())); err != nil {
		return err
	}
	defer termevent.DisableRawMode()

	src, err := termevent.NewSource(in)
	if err != nil {
		return errors.Wrap(err, "failed to create event source")
	}
	q := termevent.NewQueue(src)
	defer q.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if s.Mouse {
		if err := q.EnableMouseCapture(out); err != nil {
			return err
		}
		defer q.DisableMouseCapture(out)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var g errgroup.Group

	// A blocked Poll does not watch ctx; wake it instead.
	g.Go(func() error {
		<-ctx.Done()
		return q.Wake()
	})
	g.Go(func() error {
		defer cancel()
		return loop(ctx, q, out, s)
	})
	return g.Wait()
}

// loop polls q and prints what arrives. It returns nil when the quit key or
// Esc is pressed or ctx is canceled.
func loop(ctx context.Context, q *termevent.Queue, w *bufio.Writer, s settings) error {
	keys := s.keyMap()
	for {
		if ctx.Err() != nil {
			return w.Flush()
		}

		ok, err := q.Poll(s.Poll)
		if err != nil {
			return err
		}
		if !ok {
			if ctx.Err() == nil {
				w.WriteString(".")
				if err := w.Flush(); err != nil {
					return err
				}
			}
			continue
		}

		ev, err := q.Read()
		if err != nil {
			return err
		}
		// Raw mode turns off output processing, so lines need an explicit \r.
		fmt.Fprintf(w, "%s\r\n", formatEvent(ev))

		if key, ok := ev.(termevent.KeyEvent); ok {
			switch keys.lookup(key) {
			case actionQuit:
				return w.Flush()
			case actionCursor:
				col, row, err := q.CursorPosition(w)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "cursor  (%d, %d)\r\n", col, row)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
