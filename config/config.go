package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendScalog = "scalog"
)

var ErrUnknownBackend = errors.New("unknown log backend")

// Config holds the settings of a logqueue server.
type Config struct {
	ListenAddr     string `mapstructure:"listen-addr"`
	AdminAddr      string `mapstructure:"admin-addr"`
	LogLevel       string `mapstructure:"log-level"`
	Backend        string `mapstructure:"backend"`
	DataDir        string `mapstructure:"data-dir"`
	Tag            uint32 `mapstructure:"tag"`
	EnableRecovery bool   `mapstructure:"enable-recovery"`
	BlockCapacity  int    `mapstructure:"block-capacity"`
	PeekBatch      int    `mapstructure:"peek-batch"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen-addr", ":50051")
	v.SetDefault("admin-addr", ":9090")
	v.SetDefault("log-level", "info")
	v.SetDefault("backend", BackendMemory)
	v.SetDefault("data-dir", "./data")
	v.SetDefault("tag", 0)
	v.SetDefault("enable-recovery", true)
	v.SetDefault("block-capacity", 16<<10)
	v.SetDefault("peek-batch", 128)

	// scalog backend
	v.SetDefault("data-replication-factor", 1)
	v.SetDefault("disc-ip", "127.0.0.1")
	v.SetDefault("disc-port", 21024)
	v.SetDefault("data-port", 21025)
	v.SetDefault("scalog-clients", 4)
}

// Load reads settings into the global viper instance, which the scalog
// backend reads its connection keys from. path may be empty.
func Load(path string) (*Config, error) {
	return LoadFrom(viper.GetViper(), path)
}

// LoadFrom reads settings into v: defaults, then the optional config file,
// then LOGQUEUE_* environment variables.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("logqueue")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendPebble:
	case BackendScalog:
		if c.EnableRecovery {
			return fmt.Errorf("backend %q cannot serve recovery; set enable-recovery=false", c.Backend)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.BlockCapacity <= 0 {
		return fmt.Errorf("block-capacity must be positive, got %d", c.BlockCapacity)
	}
	if c.PeekBatch <= 0 {
		return fmt.Errorf("peek-batch must be positive, got %d", c.PeekBatch)
	}
	if c.Backend == BackendPebble && c.DataDir == "" {
		return errors.New("data-dir is required for the pebble backend")
	}
	return nil
}
