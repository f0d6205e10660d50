package termevent

import (
	"strconv"
	"strings"
)

// Key represents a keyboard key.
type Key uint8

const (
	// KeyNull is the NUL byte (Ctrl+@ or Ctrl+Space on most terminals).
	// It is also the zero value.
	KeyNull Key = iota

	// KeyRune represents a printable character. Check KeyEvent.Rune for the character.
	KeyRune

	// KeyFunction represents a function key. Check KeyEvent.Fn for its 1-based index.
	KeyFunction

	// Special keys
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackTab
	KeyInsert
	KeyDelete

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// String returns a human-readable representation of the key.
func (k Key) String() string {
	switch k {
	case KeyNull:
		return "Null"
	case KeyRune:
		return "Rune"
	case KeyFunction:
		return "F"
	case KeyBackspace:
		return "Backspace"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Esc"
	case KeyTab:
		return "Tab"
	case KeyBackTab:
		return "BackTab"
	case KeyInsert:
		return "Insert"
	case KeyDelete:
		return "Delete"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	default:
		return "Key(" + strconv.Itoa(int(k)) + ")"
	}
}

// Modifier represents keyboard modifier flags.
type Modifier uint8

const (
	// ModNone represents no modifiers.
	ModNone Modifier = 0
	// ModShift represents the Shift modifier.
	ModShift Modifier = 1 << (iota - 1)
	// ModCtrl represents the Ctrl modifier.
	ModCtrl
	// ModAlt represents the Alt modifier.
	ModAlt
)

// Has checks if the modifier set includes the given modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns a human-readable representation of the modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// decodeModifier decodes the xterm modifier parameter.
// The parameter is encoded as: 1 + (shift ? 1 : 0) + (alt ? 2 : 0) + (ctrl ? 4 : 0)
// So: 1=none, 2=shift, 3=alt, 4=shift+alt, 5=ctrl, 6=ctrl+shift, 7=ctrl+alt, 8=all
func decodeModifier(param int) Modifier {
	if param <= 1 {
		return ModNone
	}

	flags := param - 1
	var mod Modifier
	if flags&1 != 0 {
		mod |= ModShift
	}
	if flags&2 != 0 {
		mod |= ModAlt
	}
	if flags&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}
