package config

import (
	"time"

	"github.com/fairwaylabs/caddie/internal/infra/api"
	"github.com/fairwaylabs/caddie/internal/infra/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	API     api.Config    `yaml:"api"`
	Retry   retry.Config  `yaml:"retry"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the health/metrics endpoint settings used by watch
// mode.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// WatchConfig holds roster polling settings.
type WatchConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
