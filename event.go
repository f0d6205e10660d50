package termevent

import (
	"fmt"
	"strings"
)

// Event is the base interface for all terminal events.
// Use type switch to handle specific event types.
type Event interface {
	// isEvent is a marker method to prevent external implementations.
	isEvent()
}

// KeyEvent represents a keyboard input event.
type KeyEvent struct {
	// Key is the key pressed. For printable characters, this is KeyRune.
	// For function keys, this is KeyFunction.
	Key Key

	// Rune is the character for KeyRune events. Zero for other keys.
	Rune rune

	// Fn is the 1-based function key index for KeyFunction events.
	Fn uint8

	// Mod contains modifier flags (Ctrl, Alt, Shift).
	Mod Modifier
}

func (KeyEvent) isEvent() {}

// IsRune returns true if this is a printable character event.
func (e KeyEvent) IsRune() bool {
	return e.Key == KeyRune
}

// Is checks if the event matches a specific key with optional modifiers.
// Example: event.Is(KeyEnter) or event.Is(KeyRune, ModCtrl)
func (e KeyEvent) Is(key Key, mods ...Modifier) bool {
	if e.Key != key {
		return false
	}
	if len(mods) == 0 {
		return true
	}
	var combined Modifier
	for _, m := range mods {
		combined |= m
	}
	return e.Mod == combined
}

// String renders the event as e.g. "Ctrl+Char('a')" or "Shift+F(5)".
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Mod != ModNone {
		b.WriteString(e.Mod.String())
		b.WriteByte('+')
	}
	switch e.Key {
	case KeyRune:
		fmt.Fprintf(&b, "Char(%q)", e.Rune)
	case KeyFunction:
		fmt.Fprintf(&b, "F(%d)", e.Fn)
	default:
		b.WriteString(e.Key.String())
	}
	return b.String()
}

// withMod returns a copy of the event with mod added.
func (e KeyEvent) withMod(mod Modifier) KeyEvent {
	e.Mod |= mod
	return e
}

// ResizeEvent is emitted when the terminal is resized.
type ResizeEvent struct {
	Width  uint16
	Height uint16
}

func (ResizeEvent) isEvent() {}

func (e ResizeEvent) String() string {
	return fmt.Sprintf("Resize(%d, %d)", e.Width, e.Height)
}

// MouseButton represents which mouse button was involved in an event.
type MouseButton uint8

const (
	// MouseNone indicates no button. Release and hold events carry it.
	MouseNone MouseButton = iota
	// MouseLeft is the left (primary) mouse button.
	MouseLeft
	// MouseRight is the right (secondary) mouse button.
	MouseRight
	// MouseMiddle is the middle mouse button (scroll wheel click).
	MouseMiddle
	// MouseWheelUp is a scroll wheel up event.
	MouseWheelUp
	// MouseWheelDown is a scroll wheel down event.
	MouseWheelDown
)

func (b MouseButton) String() string {
	switch b {
	case MouseNone:
		return "None"
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	case MouseWheelUp:
		return "WheelUp"
	case MouseWheelDown:
		return "WheelDown"
	default:
		return fmt.Sprintf("MouseButton(%d)", uint8(b))
	}
}

// MouseAction represents the type of mouse action.
type MouseAction uint8

const (
	// MousePress indicates a button was pressed or the wheel was rotated.
	MousePress MouseAction = iota
	// MouseRelease indicates a button was released.
	MouseRelease
	// MouseHold indicates motion while a button is held.
	MouseHold
)

// MouseEvent represents a mouse input event.
type MouseEvent struct {
	// Action is the type of mouse action (press, release, hold).
	Action MouseAction
	// Button is which mouse button was pressed. MouseNone for release and hold.
	Button MouseButton
	// X is the column position (0-indexed).
	X uint16
	// Y is the row position (0-indexed).
	Y uint16
	// Mod contains modifier flags (Ctrl, Alt, Shift).
	Mod Modifier
}

func (MouseEvent) isEvent() {}

func (e MouseEvent) String() string {
	var s string
	switch e.Action {
	case MousePress:
		s = fmt.Sprintf("Press(%s, %d, %d)", e.Button, e.X, e.Y)
	case MouseRelease:
		s = fmt.Sprintf("Release(%d, %d)", e.X, e.Y)
	case MouseHold:
		s = fmt.Sprintf("Hold(%d, %d)", e.X, e.Y)
	default:
		s = fmt.Sprintf("Mouse(%d, %d, %d)", e.Action, e.X, e.Y)
	}
	if e.Mod != ModNone {
		return e.Mod.String() + "+" + s
	}
	return s
}

// cursorPositionEvent is the terminal's reply to a cursor position query.
// It never reaches Read; only CursorPosition consumes it.
type cursorPositionEvent struct {
	Col uint16
	Row uint16
}

func (cursorPositionEvent) isEvent() {}

func (e cursorPositionEvent) String() string {
	return fmt.Sprintf("CursorPosition(%d, %d)", e.Col, e.Row)
}

// isCanonical reports whether ev belongs to the consumer-facing stream.
func isCanonical(ev Event) bool {
	switch ev.(type) {
	case KeyEvent, MouseEvent, ResizeEvent:
		return true
	default:
		return false
	}
}

// isCursorPosition reports whether ev is a cursor position report.
func isCursorPosition(ev Event) bool {
	_, ok := ev.(cursorPositionEvent)
	return ok
}
