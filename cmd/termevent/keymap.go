package main

import "github.com/grindlemire/go-termevent"

// action is what the event loop does in response to a key.
type action int

const (
	actionNone action = iota
	actionQuit
	actionCursor
)

// keyPattern identifies which key events match a binding.
type keyPattern struct {
	Key           termevent.Key      // Specific non-rune key, or 0
	Rune          rune               // Specific rune, or 0
	Mod           termevent.Modifier // When non-zero, event must have exactly these mods
	RequireNoMods bool               // When true, event must have no modifiers (Mod is ignored)
}

// matches checks if a pattern matches a key event.
func (p keyPattern) matches(ke termevent.KeyEvent) bool {
	if p.RequireNoMods && ke.Mod != termevent.ModNone {
		return false
	}
	if p.Mod != termevent.ModNone && ke.Mod != p.Mod {
		return false
	}

	if p.Rune != 0 {
		return ke.Key == termevent.KeyRune && ke.Rune == p.Rune
	}
	return p.Key != 0 && ke.Key == p.Key
}

// keyBinding associates a key pattern with an action.
type keyBinding struct {
	Pattern keyPattern
	Action  action
}

// keyMap is an ordered list of bindings. The first match wins.
type keyMap []keyBinding

func (m keyMap) lookup(ke termevent.KeyEvent) action {
	for _, b := range m {
		if b.Pattern.matches(ke) {
			return b.Action
		}
	}
	return actionNone
}

// keyMap returns the bindings for s. Esc and Ctrl+C always quit, since raw
// mode keeps Ctrl+C from raising SIGINT.
func (s settings) keyMap() keyMap {
	return keyMap{
		{Pattern: keyPattern{Key: termevent.KeyEscape}, Action: actionQuit},
		{Pattern: keyPattern{Rune: 'c', Mod: termevent.ModCtrl}, Action: actionQuit},
		{Pattern: keyPattern{Rune: s.QuitKey, RequireNoMods: true}, Action: actionQuit},
		{Pattern: keyPattern{Rune: s.CursorKey, RequireNoMods: true}, Action: actionCursor},
	}
}
