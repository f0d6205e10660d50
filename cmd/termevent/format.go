package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/grindlemire/go-termevent"
)

// kindWidth is the width of the first output column.
const kindWidth = 8

// formatEvent renders ev as one output line without the line ending.
func formatEvent(ev termevent.Event) string {
	var kind, detail string
	switch ev := ev.(type) {
	case termevent.KeyEvent:
		kind, detail = "key", ev.String()
		if ev.IsRune() {
			// Cells the character occupies on screen.
			detail += fmt.Sprintf(" width=%d", runewidth.RuneWidth(ev.Rune))
		}
	case termevent.MouseEvent:
		kind, detail = "mouse", ev.String()
	case termevent.ResizeEvent:
		kind, detail = "resize", ev.String()
	default:
		kind, detail = "event", fmt.Sprint(ev)
	}
	return runewidth.FillRight(kind, kindWidth) + detail
}
