package config

import "time"

const (
	DefaultServerPort      = 8000
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultSPARQLEndpoint   = "http://localhost:7200"
	DefaultSPARQLRepository = "smartcompare"
	DefaultSPARQLTimeout    = 30 * time.Second

	DefaultReasonerTimeout = 2 * time.Minute
	DefaultReasonerTTL     = 5 * time.Minute

	DefaultOntologyPath = "ontologia/marketplace.owl"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the platform
// default. Fields already set by the caller are left unchanged so explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.SPARQL.Endpoint == "" {
		cfg.SPARQL.Endpoint = DefaultSPARQLEndpoint
	}
	if cfg.SPARQL.Repository == "" {
		cfg.SPARQL.Repository = DefaultSPARQLRepository
	}
	if cfg.SPARQL.Timeout == 0 {
		cfg.SPARQL.Timeout = DefaultSPARQLTimeout
	}

	if cfg.Reasoner.Timeout == 0 {
		cfg.Reasoner.Timeout = DefaultReasonerTimeout
	}
	if cfg.Reasoner.TTL == 0 {
		cfg.Reasoner.TTL = DefaultReasonerTTL
	}

	if cfg.Ontology.Path == "" {
		cfg.Ontology.Path = DefaultOntologyPath
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
