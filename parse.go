package termevent

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// errParse marks a buffer that cannot begin any known sequence, or a known
// sequence with malformed parameters. The caller discards the buffer.
var errParse = errors.New("termevent: could not parse an event")

// maxSequenceLen bounds an unterminated CSI sequence. Anything longer is
// garbage and gets discarded instead of growing the buffer forever.
const maxSequenceLen = 64

// parseEvent decodes buf into at most one event.
//
// It returns (event, nil) when buf is exactly one complete sequence,
// (nil, nil) when buf is a valid prefix that more bytes could complete, and
// (nil, errParse) when buf can never become a known sequence.
//
// more reports whether further bytes are already available. It only matters
// for a lone ESC: without more input it is the Esc key, otherwise it is held
// as the start of an escape sequence.
func parseEvent(buf []byte, more bool) (Event, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	switch buf[0] {
	case 0x1b:
		if len(buf) == 1 {
			if more {
				return nil, nil
			}
			return KeyEvent{Key: KeyEscape}, nil
		}

		switch buf[1] {
		case 'O':
			return parseSS3(buf)
		case '[':
			return parseCSI(buf)
		case 0x1b:
			return KeyEvent{Key: KeyEscape}, nil
		default:
			// Alt+key
			ev, err := parseEvent(buf[1:], more)
			if err != nil || ev == nil {
				return nil, err
			}
			if ke, ok := ev.(KeyEvent); ok {
				return ke.withMod(ModAlt), nil
			}
			return nil, errParse
		}
	case '\r', '\n':
		return KeyEvent{Key: KeyEnter}, nil
	case '\t':
		return KeyEvent{Key: KeyTab}, nil
	case 0x7f:
		return KeyEvent{Key: KeyBackspace}, nil
	case 0x00:
		return KeyEvent{Key: KeyNull}, nil
	}

	b := buf[0]
	switch {
	case b >= 0x01 && b <= 0x1a:
		return KeyEvent{Key: KeyRune, Rune: rune('a' + b - 0x01), Mod: ModCtrl}, nil
	case b >= 0x1c && b <= 0x1f:
		return KeyEvent{Key: KeyRune, Rune: rune('4' + b - 0x1c), Mod: ModCtrl}, nil
	}

	return parseUTF8(buf)
}

// parseSS3 parses ESC O <final>.
func parseSS3(buf []byte) (Event, error) {
	if len(buf) == 2 {
		return nil, nil
	}

	switch final := buf[2]; final {
	case 'A':
		return KeyEvent{Key: KeyUp}, nil
	case 'B':
		return KeyEvent{Key: KeyDown}, nil
	case 'C':
		return KeyEvent{Key: KeyRight}, nil
	case 'D':
		return KeyEvent{Key: KeyLeft}, nil
	case 'H':
		return KeyEvent{Key: KeyHome}, nil
	case 'F':
		return KeyEvent{Key: KeyEnd}, nil
	case 'P', 'Q', 'R', 'S':
		return KeyEvent{Key: KeyFunction, Fn: 1 + final - 'P'}, nil
	}
	return nil, errParse
}

// parseCSI parses a sequence starting with ESC [.
func parseCSI(buf []byte) (Event, error) {
	if len(buf) == 2 {
		return nil, nil
	}
	if len(buf) > maxSequenceLen {
		return nil, errParse
	}

	switch buf[2] {
	case '[':
		// Linux console F1-F5: ESC [ [ A..E
		if len(buf) == 3 {
			return nil, nil
		}
		if buf[3] >= 'A' && buf[3] <= 'E' {
			return KeyEvent{Key: KeyFunction, Fn: 1 + buf[3] - 'A'}, nil
		}
		return nil, errParse
	case 'A':
		return KeyEvent{Key: KeyUp}, nil
	case 'B':
		return KeyEvent{Key: KeyDown}, nil
	case 'C':
		return KeyEvent{Key: KeyRight}, nil
	case 'D':
		return KeyEvent{Key: KeyLeft}, nil
	case 'H':
		return KeyEvent{Key: KeyHome}, nil
	case 'F':
		return KeyEvent{Key: KeyEnd}, nil
	case 'Z':
		return KeyEvent{Key: KeyBackTab}, nil
	case 'M':
		return parseMouseX10(buf)
	case '<':
		return parseMouseSGR(buf)
	}

	if !isDigit(buf[2]) {
		return nil, errParse
	}

	// Parameterized sequence: wait for the final byte.
	last := buf[len(buf)-1]
	if last < 0x40 || last > 0x7e {
		if !isDigit(last) && last != ';' {
			return nil, errParse
		}
		return nil, nil
	}

	params, err := parseParams(buf[2 : len(buf)-1])
	if err != nil {
		return nil, err
	}

	switch last {
	case 'M':
		return parseMouseRxvt(params)
	case '~':
		return parseSpecialKey(params)
	case 'R':
		return parseCursorPosition(params)
	default:
		return parseModifiedKey(params, last)
	}
}

// parseParams splits a semicolon-delimited decimal parameter list.
// Empty, non-numeric and out-of-range parameters are errors.
func parseParams(raw []byte) ([]int, error) {
	fields := bytes.Split(raw, []byte{';'})
	params := make([]int, 0, len(fields))
	for _, f := range fields {
		if len(f) == 0 {
			return nil, errParse
		}
		n, err := strconv.ParseUint(string(f), 10, 16)
		if err != nil {
			return nil, errParse
		}
		params = append(params, int(n))
	}
	return params, nil
}

// parseSpecialKey parses CSI n ~ and CSI n ; mod ~.
func parseSpecialKey(params []int) (Event, error) {
	if len(params) == 0 || len(params) > 2 {
		return nil, errParse
	}

	var mod Modifier
	if len(params) == 2 {
		mod = decodeModifier(params[1])
	}

	ev := KeyEvent{Mod: mod}
	switch code := params[0]; {
	case code == 1 || code == 7:
		ev.Key = KeyHome
	case code == 2:
		ev.Key = KeyInsert
	case code == 3:
		ev.Key = KeyDelete
	case code == 4 || code == 8:
		ev.Key = KeyEnd
	case code == 5:
		ev.Key = KeyPageUp
	case code == 6:
		ev.Key = KeyPageDown
	case code >= 11 && code <= 15:
		ev.Key, ev.Fn = KeyFunction, uint8(code-10)
	case code >= 17 && code <= 21:
		ev.Key, ev.Fn = KeyFunction, uint8(code-11)
	case code >= 23 && code <= 24:
		ev.Key, ev.Fn = KeyFunction, uint8(code-12)
	default:
		return nil, errParse
	}
	return ev, nil
}

// parseModifiedKey parses CSI 1 ; mod X (xterm-style modified keys).
func parseModifiedKey(params []int, final byte) (Event, error) {
	if len(params) == 0 || len(params) > 2 {
		return nil, errParse
	}

	var mod Modifier
	if len(params) == 2 {
		mod = decodeModifier(params[1])
	}

	ev := KeyEvent{Mod: mod}
	switch final {
	case 'A':
		ev.Key = KeyUp
	case 'B':
		ev.Key = KeyDown
	case 'C':
		ev.Key = KeyRight
	case 'D':
		ev.Key = KeyLeft
	case 'H':
		ev.Key = KeyHome
	case 'F':
		ev.Key = KeyEnd
	case 'P', 'Q', 'S':
		// 'R' would be F3 but is reserved for cursor position reports.
		ev.Key, ev.Fn = KeyFunction, 1+final-'P'
	default:
		return nil, errParse
	}
	return ev, nil
}

// parseCursorPosition parses CSI row ; col R. Coordinates are 1-based on
// the wire and 0-based in the event.
func parseCursorPosition(params []int) (Event, error) {
	if len(params) != 2 || params[0] < 1 || params[1] < 1 {
		return nil, errParse
	}
	return cursorPositionEvent{Col: uint16(params[1] - 1), Row: uint16(params[0] - 1)}, nil
}

// parseMouseX10 parses the legacy encoding ESC [ M Cb Cx Cy where each of
// the three payload bytes is offset by 32.
func parseMouseX10(buf []byte) (Event, error) {
	if len(buf) < 6 {
		return nil, nil
	}
	if len(buf) > 6 || buf[3] < 32 || buf[4] < 33 || buf[5] < 33 {
		return nil, errParse
	}

	cb := int(buf[3]) - 32
	x := uint16(buf[4]) - 33
	y := uint16(buf[5]) - 33
	return decodeMouse(cb, x, y, false)
}

// parseMouseSGR parses an SGR-1006 mouse sequence.
// Format: ESC [ < button ; x ; y M (press) or ESC [ < button ; x ; y m (release)
func parseMouseSGR(buf []byte) (Event, error) {
	last := buf[len(buf)-1]
	if last != 'M' && last != 'm' {
		if len(buf) > 3 && !isDigit(last) && last != ';' {
			return nil, errParse
		}
		return nil, nil
	}

	params, err := parseParams(buf[3 : len(buf)-1])
	if err != nil {
		return nil, err
	}
	if len(params) != 3 || params[1] < 1 || params[2] < 1 {
		return nil, errParse
	}

	return decodeMouse(params[0], uint16(params[1]-1), uint16(params[2]-1), last == 'm')
}

// parseMouseRxvt parses the urxvt-1015 encoding ESC [ Cb ; Cx ; Cy M, which
// uses decimal parameters but keeps the X10 offset of 32 on the button.
func parseMouseRxvt(params []int) (Event, error) {
	if len(params) != 3 || params[0] < 32 || params[1] < 1 || params[2] < 1 {
		return nil, errParse
	}
	return decodeMouse(params[0]-32, uint16(params[1]-1), uint16(params[2]-1), false)
}

// decodeMouse decodes an xterm button code.
//
//	bits 0-1: button (0=left, 1=middle, 2=right, 3=release)
//	bit 2: shift
//	bit 3: meta/alt
//	bit 4: ctrl
//	bit 5: motion (hold)
//	bit 6: wheel (64=up, 65=down)
//
// Horizontal wheel codes have no representation and are rejected.
func decodeMouse(cb int, x, y uint16, release bool) (Event, error) {
	ev := MouseEvent{X: x, Y: y}
	if cb&4 != 0 {
		ev.Mod |= ModShift
	}
	if cb&8 != 0 {
		ev.Mod |= ModAlt
	}
	if cb&16 != 0 {
		ev.Mod |= ModCtrl
	}

	switch {
	case cb&64 != 0:
		switch cb & 3 {
		case 0:
			ev.Button = MouseWheelUp
		case 1:
			ev.Button = MouseWheelDown
		default:
			return nil, errParse
		}
		ev.Action = MousePress
	case cb&32 != 0:
		ev.Action = MouseHold
	case release || cb&3 == 3:
		ev.Action = MouseRelease
	default:
		ev.Action = MousePress
		switch cb & 3 {
		case 0:
			ev.Button = MouseLeft
		case 1:
			ev.Button = MouseMiddle
		case 2:
			ev.Button = MouseRight
		}
	}
	return ev, nil
}

// parseUTF8 decodes a single UTF-8 encoded character.
func parseUTF8(buf []byte) (Event, error) {
	if !utf8.FullRune(buf) {
		if !validUTF8Prefix(buf) {
			return nil, errParse
		}
		return nil, nil
	}

	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return nil, errParse
	}
	if size != len(buf) {
		return nil, errParse
	}
	return KeyEvent{Key: KeyRune, Rune: r}, nil
}

// validUTF8Prefix reports whether buf could still grow into a valid
// UTF-8 encoding: a multi-byte lead byte followed only by continuation bytes.
func validUTF8Prefix(buf []byte) bool {
	if buf[0] < 0xc2 || buf[0] > 0xf4 {
		return false
	}
	for _, b := range buf[1:] {
		if b < 0x80 || b > 0xbf {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
