package xrotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLumberjack_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")

	tests := []struct {
		name     string
		filename string
		opts     []Option
		wantErr  error
	}{
		{"empty filename", "", nil, ErrEmptyFilename},
		{"zero size", file, []Option{WithMaxSize(0)}, ErrInvalidMaxSize},
		{"huge size", file, []Option{WithMaxSize(maxSizeMB + 1)}, ErrInvalidMaxSize},
		{"negative backups", file, []Option{WithMaxBackups(-1)}, ErrInvalidMaxBackups},
		{"negative age", file, []Option{WithMaxAge(-1)}, ErrInvalidMaxAge},
		{"no cleanup", file, []Option{WithMaxBackups(0), WithMaxAge(0)}, ErrNoCleanupPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewLumberjack(tt.filename, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, r)
		})
	}
}

func TestNewLumberjack_NilOptionIgnored(t *testing.T) {
	r, err := NewLumberjack(filepath.Join(t.TempDir(), "app.log"), nil, WithCompress(true), WithLocalTime(true))
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestLumberjack_WriteCreatesParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "dir", "app.log")

	r, err := NewLumberjack(file)
	require.NoError(t, err)

	n, err := r.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestLumberjack_Rotate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")

	r, err := NewLumberjack(file, WithMaxBackups(2))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())
	_, err = r.Write([]byte("second\n"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestLumberjack_Closed(t *testing.T) {
	r, err := NewLumberjack(filepath.Join(t.TempDir(), "app.log"))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrClosed)

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
}
