package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	HTTPAddr          string        `mapstructure:"http_addr" yaml:"http_addr"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":1234",
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		DatabasePath:      "linechat.db",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.HTTPAddr != "" {
		c.HTTPAddr = other.HTTPAddr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
