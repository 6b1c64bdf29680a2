package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.ListenAddr)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.True(t, cfg.EnableRecovery)
	assert.Equal(t, 16<<10, cfg.BlockCapacity)
	assert.Equal(t, 128, cfg.PeekBatch)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logqueue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: pebble
data-dir: /var/lib/logqueue
tag: 7
block-capacity: 4096
log-level: debug
`), 0o644))
	t.Setenv("LOGQUEUE_PEEK_BATCH", "16")

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, BackendPebble, cfg.Backend)
	assert.Equal(t, "/var/lib/logqueue", cfg.DataDir)
	assert.Equal(t, uint32(7), cfg.Tag)
	assert.Equal(t, 4096, cfg.BlockCapacity)
	assert.Equal(t, 16, cfg.PeekBatch)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadFrom(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: BackendMemory, BlockCapacity: 1, PeekBatch: 1}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Backend = "kafka" }, true},
		{"zero capacity", func(c *Config) { c.BlockCapacity = 0 }, true},
		{"zero batch", func(c *Config) { c.PeekBatch = 0 }, true},
		{"scalog with recovery", func(c *Config) { c.Backend = BackendScalog; c.EnableRecovery = true }, true},
		{"scalog write-only", func(c *Config) { c.Backend = BackendScalog }, false},
		{"pebble without dir", func(c *Config) { c.Backend = BackendPebble }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownBackendSentinel(t *testing.T) {
	c := Config{Backend: "kafka", BlockCapacity: 1, PeekBatch: 1}
	assert.ErrorIs(t, c.Validate(), ErrUnknownBackend)
}
