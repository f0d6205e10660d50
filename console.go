package termevent

import (
	"unicode"

	"github.com/pkg/errors"
)

// Console input records as delivered by ReadConsoleInputW. The decoding
// lives outside the windows build so it can be exercised everywhere; the
// windows source only converts raw INPUT_RECORD bytes into these structs.

// Input record event types.
const (
	keyEventType              = 0x0001
	mouseEventType            = 0x0002
	windowBufferSizeEventType = 0x0004
	menuEventType             = 0x0008
	focusEventType            = 0x0010
)

// Virtual key codes.
const (
	vkBack    = 0x08
	vkTab     = 0x09
	vkReturn  = 0x0d
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkEscape  = 0x1b
	vkPrior   = 0x21
	vkNext    = 0x22
	vkEnd     = 0x23
	vkHome    = 0x24
	vkLeft    = 0x25
	vkUp      = 0x26
	vkRight   = 0x27
	vkDown    = 0x28
	vkInsert  = 0x2d
	vkDelete  = 0x2e
	vkF1      = 0x70
	vkF24     = 0x87
)

// Control key state flags.
const (
	rightAltPressed  = 0x0001
	leftAltPressed   = 0x0002
	rightCtrlPressed = 0x0004
	leftCtrlPressed  = 0x0008
	shiftPressed     = 0x0010
)

// Mouse button state and event flags.
const (
	fromLeft1stButtonPressed = 0x0001
	rightmostButtonPressed   = 0x0002
	fromLeft2ndButtonPressed = 0x0004

	mouseMoved    = 0x0001
	doubleClick   = 0x0002
	mouseWheeled  = 0x0004
	mouseHWheeled = 0x0008
)

// WaitForMultipleObjects results.
const (
	waitObject0 = 0x00000000
	waitTimeout = 0x00000102
)

// waitOutcome maps the result of waiting on n handles to the index of the
// signaled handle, or -1 on timeout. Anything else, an abandoned wait
// included, cannot happen for a console handle and an event, so it is an
// error.
func waitOutcome(result uint32, n int) (int, error) {
	switch {
	case result == waitTimeout:
		return -1, nil
	case result-waitObject0 < uint32(n):
		return int(result - waitObject0), nil
	}
	return 0, errors.Errorf("unexpected wait result %#x", result)
}

type keyRecord struct {
	KeyDown         bool
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

type mouseRecord struct {
	X, Y            int16
	ButtonState     uint32
	ControlKeyState uint32
	EventFlags      uint32
}

type sizeRecord struct {
	X, Y int16
}

// inputRecord is one decoded INPUT_RECORD. Only the member selected by
// EventType is meaningful.
type inputRecord struct {
	EventType uint16
	Key       keyRecord
	Mouse     mouseRecord
	Size      sizeRecord
}

// decodeRecord translates one console input record into an event.
// It returns (nil, nil) for records with no canonical representation:
// key-up, modifier-only presses, double clicks, horizontal wheel, focus and
// menu records.
//
// windowTop reports the first visible row of the screen buffer. It is queried
// for every mouse event because scrolling moves the window between events.
func decodeRecord(rec inputRecord, windowTop func() (int16, error)) (Event, error) {
	switch rec.EventType {
	case keyEventType:
		if ev, ok := decodeKeyRecord(rec.Key); ok {
			return ev, nil
		}
	case mouseEventType:
		ev, ok := decodeMouseRecord(rec.Mouse)
		if !ok {
			return nil, nil
		}
		top, err := windowTop()
		if err != nil {
			return nil, err
		}
		ev.Y = relativeRow(rec.Mouse.Y, top)
		return ev, nil
	case windowBufferSizeEventType:
		return ResizeEvent{Width: uint16(rec.Size.X), Height: uint16(rec.Size.Y)}, nil
	case focusEventType, menuEventType:
	}
	return nil, nil
}

// relativeRow converts an absolute screen-buffer row into a row relative to
// the visible window.
func relativeRow(y, top int16) uint16 {
	if y < top {
		return 0
	}
	return uint16(y - top)
}

func controlKeyModifiers(state uint32) Modifier {
	var mod Modifier
	if state&shiftPressed != 0 {
		mod |= ModShift
	}
	if state&(leftCtrlPressed|rightCtrlPressed) != 0 {
		mod |= ModCtrl
	}
	if state&(leftAltPressed|rightAltPressed) != 0 {
		mod |= ModAlt
	}
	return mod
}

func decodeKeyRecord(r keyRecord) (KeyEvent, bool) {
	if !r.KeyDown {
		return KeyEvent{}, false
	}

	mod := controlKeyModifiers(r.ControlKeyState)

	switch vk := r.VirtualKeyCode; {
	case vk == vkShift || vk == vkControl || vk == vkMenu:
		return KeyEvent{}, false
	case vk == vkBack:
		return KeyEvent{Key: KeyBackspace, Mod: mod}, true
	case vk == vkEscape:
		return KeyEvent{Key: KeyEscape, Mod: mod}, true
	case vk == vkReturn:
		return KeyEvent{Key: KeyEnter, Mod: mod}, true
	case vk >= vkF1 && vk <= vkF24:
		return KeyEvent{Key: KeyFunction, Fn: uint8(vk - vkF1 + 1), Mod: mod}, true
	case vk == vkLeft:
		return KeyEvent{Key: KeyLeft, Mod: mod}, true
	case vk == vkUp:
		return KeyEvent{Key: KeyUp, Mod: mod}, true
	case vk == vkRight:
		return KeyEvent{Key: KeyRight, Mod: mod}, true
	case vk == vkDown:
		return KeyEvent{Key: KeyDown, Mod: mod}, true
	case vk == vkPrior:
		return KeyEvent{Key: KeyPageUp, Mod: mod}, true
	case vk == vkNext:
		return KeyEvent{Key: KeyPageDown, Mod: mod}, true
	case vk == vkHome:
		return KeyEvent{Key: KeyHome, Mod: mod}, true
	case vk == vkEnd:
		return KeyEvent{Key: KeyEnd, Mod: mod}, true
	case vk == vkDelete:
		return KeyEvent{Key: KeyDelete, Mod: mod}, true
	case vk == vkInsert:
		return KeyEvent{Key: KeyInsert, Mod: mod}, true
	}

	return decodeCharRecord(r, mod)
}

// decodeCharRecord handles keys that produce a character.
func decodeCharRecord(r keyRecord, mod Modifier) (KeyEvent, bool) {
	c := rune(r.UnicodeChar)

	switch {
	case mod.Has(ModAlt):
		// With Alt held the console reports a system command, not a
		// character; the key itself is only visible in the virtual key code.
		command := rune(r.VirtualKeyCode)
		if command > unicode.MaxASCII || !unicode.IsLetter(command) {
			return KeyEvent{}, false
		}
		if !mod.Has(ModShift) {
			command = unicode.ToLower(command)
		}
		return KeyEvent{Key: KeyRune, Rune: command, Mod: ModAlt}, true
	case mod.Has(ModCtrl):
		switch {
		case c >= 0x01 && c <= 0x1a:
			return KeyEvent{Key: KeyRune, Rune: 'a' + c - 0x01, Mod: ModCtrl}, true
		case c >= 0x1c && c <= 0x1f:
			return KeyEvent{Key: KeyRune, Rune: '4' + c - 0x1c, Mod: ModCtrl}, true
		}
		return KeyEvent{}, false
	case c == '\t' || r.VirtualKeyCode == vkTab:
		if mod.Has(ModShift) {
			return KeyEvent{Key: KeyBackTab}, true
		}
		return KeyEvent{Key: KeyTab}, true
	case c == 0:
		return KeyEvent{}, false
	case c >= 0xd800 && c <= 0xdfff:
		// Half of a surrogate pair; characters outside the BMP are dropped.
		return KeyEvent{}, false
	}

	// Shift only changes which character was produced.
	return KeyEvent{Key: KeyRune, Rune: c}, true
}

func decodeMouseRecord(r mouseRecord) (MouseEvent, bool) {
	ev := MouseEvent{
		X:   uint16(max(r.X, 0)),
		Mod: controlKeyModifiers(r.ControlKeyState),
	}

	switch r.EventFlags {
	case 0:
		switch {
		case r.ButtonState == 0:
			ev.Action = MouseRelease
		case r.ButtonState&fromLeft1stButtonPressed != 0:
			ev.Action, ev.Button = MousePress, MouseLeft
		case r.ButtonState&rightmostButtonPressed != 0:
			ev.Action, ev.Button = MousePress, MouseRight
		case r.ButtonState&fromLeft2ndButtonPressed != 0:
			ev.Action, ev.Button = MousePress, MouseMiddle
		default:
			return MouseEvent{}, false
		}
	case mouseMoved:
		// Plain motion is only reported while a button is held.
		if r.ButtonState == 0 {
			return MouseEvent{}, false
		}
		ev.Action = MouseHold
	case mouseWheeled:
		// The high word of ButtonState is the signed wheel delta.
		ev.Action = MousePress
		if int32(r.ButtonState) < 0 {
			ev.Button = MouseWheelDown
		} else {
			ev.Button = MouseWheelUp
		}
	case doubleClick, mouseHWheeled:
		// No representation in terminal mouse reporting.
		return MouseEvent{}, false
	default:
		return MouseEvent{}, false
	}
	return ev, true
}
