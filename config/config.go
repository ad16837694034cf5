package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"netstate/snapshot"
)

const envPrefix = "NETSTATE"

// Store backends
const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
)

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Input   InputConfig   `mapstructure:"input"`
	Store   StoreConfig   `mapstructure:"store"`
	Builder BuilderConfig `mapstructure:"builder"`
	Server  ServerConfig  `mapstructure:"server"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	AppLogFile string `mapstructure:"app_log_file"`
}

type InputConfig struct {
	DescriptorsDir string `mapstructure:"descriptors_dir"`
	ConsensusesDir string `mapstructure:"consensuses_dir"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type BuilderConfig struct {
	MustBeRunning       bool   `mapstructure:"must_be_running"`
	InitialStatusPolicy string `mapstructure:"initial_status_policy"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.app_log_file", "")
	v.SetDefault("input.descriptors_dir", "")
	v.SetDefault("input.consensuses_dir", "")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.path", "network_state")
	// bandwidth analysis wants non-running relays as well
	v.SetDefault("builder.must_be_running", false)
	v.SetDefault("builder.initial_status_policy", string(snapshot.PolicyFallback))
	v.SetDefault("server.port", 8080)
}

// New returns a viper instance with defaults and NETSTATE_ environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
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
	switch c.Store.Backend {
	case BackendFile, BackendLevelDB:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.New("store.path must be set")
	}
	if _, err := snapshot.ParsePolicy(c.Builder.InitialStatusPolicy); err != nil {
		return err
	}
	return nil
}
