package xconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contendConfig struct {
	Kind       string `koanf:"kind"`
	Workers    int    `koanf:"workers"`
	Iterations int    `koanf:"iterations"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_YAML(t *testing.T) {
	path := writeFile(t, "app.yaml", "contend:\n  kind: recursive\n  workers: 4\n  iterations: 10\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, FormatYAML, cfg.Format())

	var c contendConfig
	require.NoError(t, cfg.Unmarshal("contend", &c))
	assert.Equal(t, contendConfig{Kind: "recursive", Workers: 4, Iterations: 10}, c)
	assert.Equal(t, 4, cfg.Client().Int("contend.workers"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New("config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = New(writeFile(t, "bad.json", "{not json"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestNew_EmptyFile(t *testing.T) {
	cfg, err := New(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)

	var c contendConfig
	require.NoError(t, cfg.Unmarshal("", &c))
	assert.Zero(t, c)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(`{"contend":{"workers":2}}`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, 2, cfg.Client().Int("contend.workers"))
	assert.ErrorIs(t, cfg.Reload(), ErrNotReloadable)

	_, err = NewFromBytes(nil, "toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOptions(t *testing.T) {
	cfg, err := NewFromBytes([]byte("contend:\n  workers: 3\n"), FormatYAML,
		WithDelim("/"), WithTag("json"), WithDelim(""), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Client().Int("contend/workers"))

	var c struct {
		Workers int `json:"workers"`
	}
	require.NoError(t, cfg.Unmarshal("contend", &c))
	assert.Equal(t, 3, c.Workers)
}

func TestSet_OverridesAndCopiesOnWrite(t *testing.T) {
	cfg, err := NewFromBytes([]byte("contend:\n  workers: 3\n"), FormatYAML)
	require.NoError(t, err)

	before := cfg.Client()
	require.NoError(t, cfg.Set("contend.workers", 16))

	assert.Equal(t, 3, before.Int("contend.workers"))
	assert.Equal(t, 16, cfg.Client().Int("contend.workers"))
}

func TestReload(t *testing.T) {
	path := writeFile(t, "app.yaml", "contend:\n  workers: 1\n")
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("contend:\n  workers: 9\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, 9, cfg.Client().Int("contend.workers"))

	require.NoError(t, os.WriteFile(path, []byte("contend: [\n"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), ErrParseFailed)
	assert.Equal(t, 9, cfg.Client().Int("contend.workers"))
}

func TestMustUnmarshal(t *testing.T) {
	cfg, err := NewFromBytes([]byte("contend:\n  workers: many\n"), FormatYAML)
	require.NoError(t, err)

	var c contendConfig
	assert.Panics(t, func() { cfg.MustUnmarshal("contend", &c) })
}
