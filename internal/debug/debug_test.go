package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	type tc struct {
		format string
		args   []any
		want   string
	}

	tests := map[string]tc{
		"plain message": {
			format: "hello",
			want:   "hello\n",
		},
		"formatted message": {
			format: "read %d bytes from fd %d",
			args:   []any{12, 3},
			want:   "read 12 bytes from fd 3\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			defer SetOutput(nil)

			Log(tt.format, tt.args...)

			assert.Contains(t, buf.String(), tt.want)
			assert.Equal(t, byte('['), buf.Bytes()[0], "message should start with a timestamp")
		})
	}
}

func TestLog_DisabledIsNoop(t *testing.T) {
	SetOutput(nil)
	assert.False(t, Enabled())
	assert.NotPanics(t, func() { Log("dropped %d", 1) })
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "termevent.log")

	require.NoError(t, Init(path))
	Log("first")
	Log("second")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
	assert.False(t, Enabled())
}

func TestErr_ReportsUnopenableEnvPath(t *testing.T) {
	type tc struct {
		path    string
		wantErr bool
	}

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	tests := map[string]tc{
		"unset": {},
		"opens": {
			path: filepath.Join(t.TempDir(), "termevent.log"),
		},
		"parent is a file": {
			path:    filepath.Join(blocker, "termevent.log"),
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(EnvVar, tt.path)
			initOnce, envErr = sync.Once{}, nil
			t.Cleanup(func() {
				Close()
				initOnce, envErr = sync.Once{}, nil
			})

			err := Err()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), EnvVar)
				assert.False(t, Enabled())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path != "", Enabled())
		})
	}
}
