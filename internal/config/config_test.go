package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cs := NewConfigService(t.TempDir())

	cfg, err := cs.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	cs := NewConfigService(dir)
	want := &Config{
		Version:      1,
		SingleSelect: true,
		LogLevel:     "debug",
		LogFile:      "selkit.log",
		Items:        []string{"one", "two"},
	}

	require.NoError(t, cs.Save(want))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "single_select = true")

	got, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("single_select = true\n"), 0644))

	cfg, err := NewConfigService(dir).LoadFromPath(path)

	require.NoError(t, err)
	assert.True(t, cfg.SingleSelect)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultConfig().Items, cfg.Items)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad log level", "log_level = \"loud\"\n", "log_level"},
		{"bad version", "version = 0\n", "version"},
		{"empty item", "items = [\"a\", \"\"]\n", "items[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewConfigService(dir).Load()

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("version = ["), 0644))

	_, err := NewConfigService(dir).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
