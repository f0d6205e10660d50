// Package termevent reads keyboard, mouse and resize events from a terminal.
//
// A Source decodes raw terminal input: escape sequences from a POSIX tty, or
// console input records on Windows. A Queue sits on top of a Source and is
// what programs normally use:
//
//	in, _, err := termevent.OpenTTY()
//	...
//	termevent.EnableRawMode(int(in.Fd()))
//	defer termevent.DisableRawMode()
//
//	src, err := termevent.NewSource(in)
//	...
//	q := termevent.NewQueue(src)
//	defer q.Close()
//
//	for {
//		ev, err := q.Read()
//		...
//		switch ev := ev.(type) {
//		case termevent.KeyEvent:
//		case termevent.MouseEvent:
//		case termevent.ResizeEvent:
//		}
//	}
//
// Poll checks for an event without consuming it, and Wake interrupts a
// blocked Poll or Read from another goroutine. Default, Poll, Read, Wake and
// CursorPosition at package level use a queue on the controlling terminal.
//
// Set TERMEVENT_DEBUG to a file path to log decoding decisions there.
package termevent
