package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. The
	// vendor rejects default library identification, so harvesting uses
	// a conventional browser string.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig holds bounded-retry settings shared by every
// network-touching or document-touching operation.
type RetryConfig struct {
	// MaxAttempts is the total attempt budget including the first try
	// (default 623).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BaseDelay is the flat component of the backoff delay (default 60s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// Scale multiplies the log2 of the retry count (default 10s). The
	// resulting curve grows slowly, bounding worst-case waits over very
	// large attempt budgets.
	Scale time.Duration `json:"scale" yaml:"scale"`
}

// HarvestConfig holds settings for a batch harvesting run.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`
	Retry      RetryConfig `json:"retry" yaml:"retry"`

	// BaseURL is the vendor base URL (default "https://www.addgene.org").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Vendor selects the vendor profile. Only "addgene" is recognized;
	// identifiers under an unrecognized tag yield no documents.
	Vendor string `json:"vendor" yaml:"vendor"`

	// Concurrency bounds the worker pool processing identifiers
	// (default 8). Retry state stays local to each identifier's task.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// RequestsPerSecond caps total outbound request rate across all
	// workers (default 4).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// OutputDir is the base directory for file-based sinks.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// SinkConfig holds settings for the relational sink.
type SinkConfig struct {
	// Driver is the database/sql driver name: "sqlite3" or "postgres".
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the driver-specific connection string. For Postgres it may
	// come from .secrets/postgres-dsn instead.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}
