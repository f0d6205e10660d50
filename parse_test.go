package termevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_Keys(t *testing.T) {
	type tc struct {
		input    string
		expected Event
	}

	tests := map[string]tc{
		"letter":             {input: "a", expected: KeyEvent{Key: KeyRune, Rune: 'a'}},
		"uppercase":          {input: "A", expected: KeyEvent{Key: KeyRune, Rune: 'A'}},
		"digit":              {input: "9", expected: KeyEvent{Key: KeyRune, Rune: '9'}},
		"space":              {input: " ", expected: KeyEvent{Key: KeyRune, Rune: ' '}},
		"japanese":           {input: "日", expected: KeyEvent{Key: KeyRune, Rune: '日'}},
		"emoji":              {input: "😀", expected: KeyEvent{Key: KeyRune, Rune: '😀'}},
		"carriage return":    {input: "\r", expected: KeyEvent{Key: KeyEnter}},
		"line feed":          {input: "\n", expected: KeyEvent{Key: KeyEnter}},
		"tab":                {input: "\t", expected: KeyEvent{Key: KeyTab}},
		"delete byte":        {input: "\x7f", expected: KeyEvent{Key: KeyBackspace}},
		"nul":                {input: "\x00", expected: KeyEvent{Key: KeyNull}},
		"ctrl+a":             {input: "\x01", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModCtrl}},
		"ctrl+h":             {input: "\x08", expected: KeyEvent{Key: KeyRune, Rune: 'h', Mod: ModCtrl}},
		"ctrl+z":             {input: "\x1a", expected: KeyEvent{Key: KeyRune, Rune: 'z', Mod: ModCtrl}},
		"ctrl+4":             {input: "\x1c", expected: KeyEvent{Key: KeyRune, Rune: '4', Mod: ModCtrl}},
		"ctrl+7":             {input: "\x1f", expected: KeyEvent{Key: KeyRune, Rune: '7', Mod: ModCtrl}},
		"lone escape":        {input: "\x1b", expected: KeyEvent{Key: KeyEscape}},
		"double escape":      {input: "\x1b\x1b", expected: KeyEvent{Key: KeyEscape}},
		"alt+a":              {input: "\x1ba", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModAlt}},
		"alt+ctrl+a":         {input: "\x1b\x01", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModCtrl | ModAlt}},
		"alt+enter":          {input: "\x1b\r", expected: KeyEvent{Key: KeyEnter, Mod: ModAlt}},
		"alt+utf8":           {input: "\x1bü", expected: KeyEvent{Key: KeyRune, Rune: 'ü', Mod: ModAlt}},
		"ss3 up":             {input: "\x1bOA", expected: KeyEvent{Key: KeyUp}},
		"ss3 down":           {input: "\x1bOB", expected: KeyEvent{Key: KeyDown}},
		"ss3 right":          {input: "\x1bOC", expected: KeyEvent{Key: KeyRight}},
		"ss3 left":           {input: "\x1bOD", expected: KeyEvent{Key: KeyLeft}},
		"ss3 home":           {input: "\x1bOH", expected: KeyEvent{Key: KeyHome}},
		"ss3 end":            {input: "\x1bOF", expected: KeyEvent{Key: KeyEnd}},
		"ss3 f1":             {input: "\x1bOP", expected: KeyEvent{Key: KeyFunction, Fn: 1}},
		"ss3 f4":             {input: "\x1bOS", expected: KeyEvent{Key: KeyFunction, Fn: 4}},
		"csi up":             {input: "\x1b[A", expected: KeyEvent{Key: KeyUp}},
		"csi down":           {input: "\x1b[B", expected: KeyEvent{Key: KeyDown}},
		"csi right":          {input: "\x1b[C", expected: KeyEvent{Key: KeyRight}},
		"csi left":           {input: "\x1b[D", expected: KeyEvent{Key: KeyLeft}},
		"csi home":           {input: "\x1b[H", expected: KeyEvent{Key: KeyHome}},
		"csi end":            {input: "\x1b[F", expected: KeyEvent{Key: KeyEnd}},
		"back tab":           {input: "\x1b[Z", expected: KeyEvent{Key: KeyBackTab}},
		"linux console f1":   {input: "\x1b[[A", expected: KeyEvent{Key: KeyFunction, Fn: 1}},
		"linux console f5":   {input: "\x1b[[E", expected: KeyEvent{Key: KeyFunction, Fn: 5}},
		"home tilde 1":       {input: "\x1b[1~", expected: KeyEvent{Key: KeyHome}},
		"home tilde 7":       {input: "\x1b[7~", expected: KeyEvent{Key: KeyHome}},
		"insert":             {input: "\x1b[2~", expected: KeyEvent{Key: KeyInsert}},
		"delete":             {input: "\x1b[3~", expected: KeyEvent{Key: KeyDelete}},
		"end tilde 4":        {input: "\x1b[4~", expected: KeyEvent{Key: KeyEnd}},
		"end tilde 8":        {input: "\x1b[8~", expected: KeyEvent{Key: KeyEnd}},
		"page up":            {input: "\x1b[5~", expected: KeyEvent{Key: KeyPageUp}},
		"page down":          {input: "\x1b[6~", expected: KeyEvent{Key: KeyPageDown}},
		"f1 tilde":           {input: "\x1b[11~", expected: KeyEvent{Key: KeyFunction, Fn: 1}},
		"f5 tilde":           {input: "\x1b[15~", expected: KeyEvent{Key: KeyFunction, Fn: 5}},
		"f6 tilde":           {input: "\x1b[17~", expected: KeyEvent{Key: KeyFunction, Fn: 6}},
		"f10 tilde":          {input: "\x1b[21~", expected: KeyEvent{Key: KeyFunction, Fn: 10}},
		"f11 tilde":          {input: "\x1b[23~", expected: KeyEvent{Key: KeyFunction, Fn: 11}},
		"f12 tilde":          {input: "\x1b[24~", expected: KeyEvent{Key: KeyFunction, Fn: 12}},
		"shift+delete":       {input: "\x1b[3;2~", expected: KeyEvent{Key: KeyDelete, Mod: ModShift}},
		"ctrl+page down":     {input: "\x1b[6;5~", expected: KeyEvent{Key: KeyPageDown, Mod: ModCtrl}},
		"ctrl+up":            {input: "\x1b[1;5A", expected: KeyEvent{Key: KeyUp, Mod: ModCtrl}},
		"shift+right":        {input: "\x1b[1;2C", expected: KeyEvent{Key: KeyRight, Mod: ModShift}},
		"alt+left":           {input: "\x1b[1;3D", expected: KeyEvent{Key: KeyLeft, Mod: ModAlt}},
		"ctrl+alt+shift end": {input: "\x1b[1;8F", expected: KeyEvent{Key: KeyEnd, Mod: ModCtrl | ModAlt | ModShift}},
		"shift+f1":           {input: "\x1b[1;2P", expected: KeyEvent{Key: KeyFunction, Fn: 1, Mod: ModShift}},
		"ctrl+f4":            {input: "\x1b[1;5S", expected: KeyEvent{Key: KeyFunction, Fn: 4, Mod: ModCtrl}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, err := parseEvent([]byte(tt.input), false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ev)
		})
	}
}

func TestParseEvent_CursorPosition(t *testing.T) {
	type tc struct {
		input    string
		expected Event
	}

	tests := map[string]tc{
		"origin":        {input: "\x1b[1;1R", expected: cursorPositionEvent{Col: 0, Row: 0}},
		"row 20 col 10": {input: "\x1b[20;10R", expected: cursorPositionEvent{Col: 9, Row: 19}},
		"large":         {input: "\x1b[300;500R", expected: cursorPositionEvent{Col: 499, Row: 299}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, err := parseEvent([]byte(tt.input), false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ev)
			assert.False(t, isCanonical(ev))
			assert.True(t, isCursorPosition(ev))
		})
	}
}

func TestParseEvent_Incomplete(t *testing.T) {
	type tc struct {
		input string
		more  bool
	}

	tests := map[string]tc{
		"empty":                  {input: ""},
		"escape with more":       {input: "\x1b", more: true},
		"csi introducer":         {input: "\x1b["},
		"ss3 introducer":         {input: "\x1bO"},
		"linux console prefix":   {input: "\x1b[["},
		"csi digit":              {input: "\x1b[1"},
		"csi digit semicolon":    {input: "\x1b[1;"},
		"csi modifier no final":  {input: "\x1b[1;5"},
		"cursor report partial":  {input: "\x1b[20;1"},
		"x10 mouse partial":      {input: "\x1b[M ab"[:5]},
		"sgr mouse introducer":   {input: "\x1b[<"},
		"sgr mouse partial":      {input: "\x1b[<0;5;"},
		"utf8 lead byte":         {input: "\xe6"},
		"utf8 two of three":      {input: "\xe6\x97"},
		"alt utf8 partial":       {input: "\x1b\xe6\x97", more: true},
		"four byte utf8 partial": {input: "\xf0\x9f\x98"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, err := parseEvent([]byte(tt.input), tt.more)
			require.NoError(t, err)
			assert.Nil(t, ev)
		})
	}
}

func TestParseEvent_Invalid(t *testing.T) {
	type tc struct {
		input string
	}

	tests := map[string]tc{
		"unknown csi final":       {input: "\x1b[1;5X"},
		"unknown ss3":             {input: "\x1bOX"},
		"unknown linux console":   {input: "\x1b[[F"},
		"unknown tilde code":      {input: "\x1b[99~"},
		"empty param":             {input: "\x1b[;5A"},
		"too many tilde params":   {input: "\x1b[3;2;1~"},
		"bad byte in params":      {input: "\x1b[1:"},
		"csi non digit":           {input: "\x1b[?"},
		"cursor report zero row":  {input: "\x1b[0;1R"},
		"cursor report one param": {input: "\x1b[5R"},
		"param overflow":          {input: "\x1b[99999;1R"},
		"stray continuation":      {input: "\x80"},
		"invalid lead":            {input: "\xff"},
		"utf8 broken sequence":    {input: "\xe6a"},
		"sgr too few params":      {input: "\x1b[<0;5M"},
		"sgr zero column":         {input: "\x1b[<0;0;1M"},
		"sgr bad byte":            {input: "\x1b[<0;x"},
		"horizontal wheel":        {input: "\x1b[<66;1;1M"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, err := parseEvent([]byte(tt.input), false)
			require.ErrorIs(t, err, errParse)
			assert.Nil(t, ev)
		})
	}
}

func TestParseEvent_OverlongSequence(t *testing.T) {
	buf := []byte("\x1b[1")
	for len(buf) <= maxSequenceLen {
		buf = append(buf, '1')
	}
	_, err := parseEvent(buf, false)
	assert.ErrorIs(t, err, errParse)
}

// Every strict prefix of a complete sequence must be reported as incomplete,
// never as an event and never as an error.
func TestParseEvent_PrefixesAreIncomplete(t *testing.T) {
	sequences := []string{
		"\x1b[A",
		"\x1bOP",
		"\x1b[[C",
		"\x1b[3;5~",
		"\x1b[1;8F",
		"\x1b[24;80R",
		"\x1b[<0;5;3M",
		"\x1b[<65;120;40m",
		"\x1b[32;10;20M",
		"\x1b[M !!",
		"日",
		"😀",
	}

	for _, seq := range sequences {
		t.Run(seq, func(t *testing.T) {
			for i := 1; i < len(seq); i++ {
				ev, err := parseEvent([]byte(seq[:i]), true)
				require.NoError(t, err, "prefix %q", seq[:i])
				require.Nil(t, ev, "prefix %q", seq[:i])
			}
			ev, err := parseEvent([]byte(seq), false)
			require.NoError(t, err)
			require.NotNil(t, ev)
		})
	}
}

func TestDecodeModifier(t *testing.T) {
	type tc struct {
		param    int
		expected Modifier
	}

	tests := map[string]tc{
		"zero":           {param: 0, expected: ModNone},
		"none":           {param: 1, expected: ModNone},
		"shift":          {param: 2, expected: ModShift},
		"alt":            {param: 3, expected: ModAlt},
		"shift+alt":      {param: 4, expected: ModShift | ModAlt},
		"ctrl":           {param: 5, expected: ModCtrl},
		"ctrl+shift":     {param: 6, expected: ModCtrl | ModShift},
		"ctrl+alt":       {param: 7, expected: ModCtrl | ModAlt},
		"ctrl+alt+shift": {param: 8, expected: ModCtrl | ModAlt | ModShift},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decodeModifier(tt.param))
		})
	}
}
