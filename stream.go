package termevent

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-termevent/internal/debug"
)

// Stream reads events and forwards them to out until ctx is canceled or a
// read fails. It is meant to run on a goroutine the caller owns; out should be
// buffered so a slow consumer does not stall input decoding.
//
// Cancellation wakes the blocked read instead of waiting for the next
// keypress, so Stream returns promptly with ctx.Err(). If cancellation lands
// while an event is being handed to out, the wake stays pending and the next
// Read on the queue returns ErrWoken. Closing the queue stops Stream with
// ErrClosed. Stream does not close out.
func (q *Queue) Stream(ctx context.Context, out chan<- Event) error {
	var g errgroup.Group
	done := make(chan struct{})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			if err := q.Wake(); err != nil {
				debug.Log("stream: wake: %v", err)
			}
		case <-done:
		}
		return nil
	})

	g.Go(func() error {
		defer close(done)
		for {
			ev, err := q.Read()
			if errors.Is(err, ErrWoken) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Woken by someone else; keep streaming.
				continue
			}
			if err != nil {
				return err
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	return g.Wait()
}
