package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Source      SourceConfig      `mapstructure:"source"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Log         LogConfig         `mapstructure:"log"`
}

// APIConfig holds API server configuration.
type APIConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      *bool         `mapstructure:"enable_cors"`
}

// Address returns the listen address of the API server.
func (a APIConfig) Address() string {
	return a.Host + ":" + a.Port
}

// CORSEnabled reports whether CORS headers are added; unset means enabled.
func (a APIConfig) CORSEnabled() bool {
	return a.EnableCORS == nil || *a.EnableCORS
}

// SourceConfig holds the location of the project repositories served for browsing.
type SourceConfig struct {
	Root string `mapstructure:"root"`
}

// DiagnosticsConfig holds the sinks failure diagnostics are sent to.
type DiagnosticsConfig struct {
	NATS NATSConfig `mapstructure:"nats"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectRetries int           `mapstructure:"connect_retries"`
}

// MetricsConfig holds OpenTelemetry metrics configuration.
type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New decodes and validates the configuration held by v. It panics on failure.
func New(v *viper.Viper) *Config {
	config, err := Load(v)
	if err != nil {
		panic(err)
	}
	return config
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.API.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.New("api.port must be between 1 and 65535")
	}

	if c.API.ReadTimeout < 0 || c.API.WriteTimeout < 0 || c.API.ShutdownTimeout < 0 {
		return errors.New("api timeouts cannot be negative")
	}

	if c.Source.Root == "" {
		return errors.New("source.root is required")
	}

	if n := c.Diagnostics.NATS; n.Enabled {
		if !strings.HasPrefix(n.URL, "nats://") {
			return errors.New("diagnostics.nats.url must use the nats:// scheme")
		}
		if n.Subject == "" {
			return errors.New("diagnostics.nats.subject is required")
		}
		if n.MaxReconnects < -1 {
			return errors.New("diagnostics.nats.max_reconnects must be -1 or greater")
		}
		if n.ReconnectWait < 0 {
			return errors.New("diagnostics.nats.reconnect_wait cannot be negative")
		}
		if n.ConnectRetries < 0 {
			return errors.New("diagnostics.nats.connect_retries cannot be negative")
		}
	}

	if c.Metrics.Enabled && c.Metrics.ServiceName == "" {
		return errors.New("metrics.service_name is required when metrics are enabled")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", c.Log.Format)
	}

	return nil
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", "17246")
	v.SetDefault("api.read_timeout", "10s")
	v.SetDefault("api.write_timeout", "10s")
	v.SetDefault("api.shutdown_timeout", "30s")
	v.SetDefault("api.enable_cors", true)

	v.SetDefault("source.root", "./projects")

	v.SetDefault("diagnostics.nats.enabled", false)
	v.SetDefault("diagnostics.nats.url", "nats://localhost:4222")
	v.SetDefault("diagnostics.nats.subject", "upstream.diagnostics.failures")
	v.SetDefault("diagnostics.nats.max_reconnects", 5)
	v.SetDefault("diagnostics.nats.reconnect_wait", "2s")
	v.SetDefault("diagnostics.nats.connect_retries", 3)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", "upstreamproxy")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
