package termevent

import "github.com/grindlemire/go-termevent/internal/debug"

// parser accumulates tty bytes and turns them into events.
//
// buf holds at most one in-progress escape sequence. It is cleared whenever
// a sequence completes or is rejected, so it never spans an emitted event.
type parser struct {
	buf    []byte
	events []Event
}

func newParser() *parser {
	return &parser{
		buf:    make([]byte, 0, 256),
		events: make([]Event, 0, 128),
	}
}

// advance feeds data to the parser one byte at a time. more reports whether
// the caller already knows additional bytes are waiting beyond data.
func (p *parser) advance(data []byte, more bool) {
	for i, b := range data {
		p.buf = append(p.buf, b)

		ev, err := parseEvent(p.buf, i+1 < len(data) || more)
		switch {
		case err != nil:
			debug.Log("parser: discarding %q", p.buf)
			p.buf = p.buf[:0]
		case ev != nil:
			p.events = append(p.events, ev)
			p.buf = p.buf[:0]
		}
	}
}

// next pops the oldest decoded event. It returns nil when nothing is ready.
func (p *parser) next() Event {
	if len(p.events) == 0 {
		return nil
	}
	ev := p.events[0]
	p.events[0] = nil
	p.events = p.events[1:]
	return ev
}

// pending reports the number of bytes held for an incomplete sequence.
func (p *parser) pending() int {
	return len(p.buf)
}
