// =============================================================================
// DelegateFlow Default Configuration
// =============================================================================
package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Catalog:   DefaultCatalogConfig(),
		Reference: DefaultReferenceConfig(),
		Redis:     DefaultRedisConfig(),
		Database:  DefaultDatabaseConfig(),
		NATS:      DefaultNATSConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultCatalogConfig returns the default catalog configuration.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Path:      "catalog.yaml",
		WatchFile: false,
		Persist:   false,
	}
}

// DefaultReferenceConfig returns the default reference table configuration.
func DefaultReferenceConfig() ReferenceConfig {
	return ReferenceConfig{
		Path:      "",
		WatchFile: false,
	}
}

// DefaultRedisConfig returns the default redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:     false,
		Addr:        "localhost:6379",
		DB:          0,
		DecisionTTL: 5 * time.Minute,
		PoolSize:    10,
	}
}

// DefaultDatabaseConfig returns the default database configuration.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: "sqlite",
		Path:   "delegateflow.db",
	}
}

// DefaultNATSConfig returns the default NATS configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Enabled:       false,
		URL:           "nats://localhost:4222",
		SubjectPrefix: "delegateflow.agents",
	}
}

// DefaultLogConfig returns the default log configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}

// DefaultTelemetryConfig returns the default telemetry configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		ServiceName:  "delegateflow",
		OTLPEndpoint: "localhost:4317",
		SampleRate:   1.0,
	}
}
