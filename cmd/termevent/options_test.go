package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termevent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOptions_Settings(t *testing.T) {
	type tc struct {
		args     []string
		config   string
		expected settings
	}

	tests := map[string]tc{
		"defaults": {
			expected: settings{Poll: time.Second, CursorKey: 'c', QuitKey: 'q'},
		},
		"flags": {
			args:     []string{"--mouse", "--poll=250ms", "--cursor-key=p", "--quit-key=x"},
			expected: settings{Mouse: true, Poll: 250 * time.Millisecond, CursorKey: 'p', QuitKey: 'x'},
		},
		"short flags": {
			args:     []string{"-m", "-p", "2s"},
			expected: settings{Mouse: true, Poll: 2 * time.Second, CursorKey: 'c', QuitKey: 'q'},
		},
		"config file": {
			config:   "mouse: true\npoll: 500ms\ncursor-key: k\nquit-key: ö\n",
			expected: settings{Mouse: true, Poll: 500 * time.Millisecond, CursorKey: 'k', QuitKey: 'ö'},
		},
		"flags override config": {
			args:     []string{"--poll=3s", "--quit-key=z"},
			config:   "poll: 500ms\nquit-key: v\n",
			expected: settings{Poll: 3 * time.Second, CursorKey: 'c', QuitKey: 'z'},
		},
		"no-mouse overrides config": {
			args:     []string{"--no-mouse"},
			config:   "mouse: true\n",
			expected: settings{Poll: time.Second, CursorKey: 'c', QuitKey: 'q'},
		},
		"partial config keeps defaults": {
			config:   "cursor-key: w\n",
			expected: settings{Poll: time.Second, CursorKey: 'w', QuitKey: 'q'},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			args := tt.args
			if tt.config != "" {
				args = append([]string{"--config", writeConfig(t, tt.config)}, args...)
			}

			var opts options
			require.NoError(t, opts.parse(args))
			s, err := opts.settings()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestOptions_SettingsErrors(t *testing.T) {
	type tc struct {
		args   []string
		config string
	}

	tests := map[string]tc{
		"bad poll":             {args: []string{"--poll=soon"}},
		"zero poll":            {args: []string{"--poll=0s"}},
		"negative poll":        {args: []string{"--poll=-1s"}},
		"multi character key":  {args: []string{"--quit-key=qq"}},
		"same cursor and quit": {args: []string{"--cursor-key=q"}},
		"bad config poll":      {config: "poll: never\n"},
		"bad config key":       {config: "cursor-key: abc\n"},
		"malformed yaml":       {config: "poll: [1s\n"},
		"mouse and no-mouse":   {args: []string{"--mouse", "--no-mouse"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			args := tt.args
			if tt.config != "" {
				args = append([]string{"--config", writeConfig(t, tt.config)}, args...)
			}

			var opts options
			require.NoError(t, opts.parse(args))
			_, err := opts.settings()
			assert.Error(t, err)
		})
	}
}

func TestOptions_MissingConfig(t *testing.T) {
	var opts options
	require.NoError(t, opts.parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := opts.settings()
	assert.Error(t, err)
}

func TestOptions_ParseErrors(t *testing.T) {
	type tc struct {
		args []string
	}

	tests := map[string]tc{
		"unknown flag":   {args: []string{"--bogus"}},
		"positional arg": {args: []string{"extra"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var opts options
			assert.Error(t, opts.parse(tt.args))
		})
	}
}
