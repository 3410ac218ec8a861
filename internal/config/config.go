// Package config defines the service configuration structures. No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SPARQLConfig holds the knowledge-base repository endpoint parameters.
type SPARQLConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Repository string        `mapstructure:"repository"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ReasonerConfig holds the inference engine endpoint and freshness window.
type ReasonerConfig struct {
	RunURL  string        `mapstructure:"run_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// OntologyConfig locates the OWL schema file.
type OntologyConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the root configuration structure. Every component reads its
// settings from the relevant sub-struct.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	SPARQL   SPARQLConfig      `mapstructure:"sparql"`
	Reasoner ReasonerConfig    `mapstructure:"reasoner"`
	Ontology OntologyConfig    `mapstructure:"ontology"`
	Log      logging.LogConfig `mapstructure:"log"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
}

// Validate performs semantic validation of the fully-populated Config. It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	if c.SPARQL.Endpoint == "" {
		return fmt.Errorf("config: sparql.endpoint is required")
	}
	if c.SPARQL.Repository == "" {
		return fmt.Errorf("config: sparql.repository is required")
	}
	if c.SPARQL.Timeout < 0 {
		return fmt.Errorf("config: sparql.timeout must not be negative, got %s", c.SPARQL.Timeout)
	}

	if c.Reasoner.TTL < 0 {
		return fmt.Errorf("config: reasoner.ttl must not be negative, got %s", c.Reasoner.TTL)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
