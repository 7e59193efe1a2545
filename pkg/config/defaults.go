// Package config defines runtime configuration and its defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Executor kinds.
const (
	ExecutorPool    = "pool"
	ExecutorLimited = "limited"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults.
const (
	DefaultMinPartitionSize = 512
	DefaultLogLevel         = "info"
	DefaultMetricsAddr      = ""
)

// Config is the full runtime configuration. Field tags match the YAML keys
// and the CHRONOGRAPH_* environment variables.
type Config struct {
	// Workers is the parallel query engine's fixed executor size.
	Workers int `mapstructure:"workers"`
	// Executor selects the swarm implementation: "pool" or "limited".
	Executor string `mapstructure:"executor"`
	// MinPartitionSize is the smallest adjacency slice given to one task.
	MinPartitionSize int `mapstructure:"min_partition_size"`

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogTimestamps bool   `mapstructure:"log_timestamps"`

	// OtelEndpoint enables OTLP/HTTP trace export when set.
	OtelEndpoint  string `mapstructure:"otel_endpoint"`
	SkipTelemetry bool   `mapstructure:"skip_telemetry"`
	// MetricsAddr serves /metrics when set, e.g. ":9464".
	MetricsAddr string `mapstructure:"metrics_addr"`

	Bench BenchConfig `mapstructure:"bench"`
}

// DefaultConfig returns default runtime values.
func DefaultConfig() Config {
	return Config{
		Workers:          runtime.NumCPU(),
		Executor:         ExecutorPool,
		MinPartitionSize: DefaultMinPartitionSize,
		LogLevel:         DefaultLogLevel,
		LogFormat:        LogFormatJSON,
		LogTimestamps:    true,
		MetricsAddr:      DefaultMetricsAddr,
		Bench:            DefaultBenchConfig(),
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch c.Executor {
	case ExecutorPool, ExecutorLimited:
	default:
		return fmt.Errorf("unknown executor %q (want %q or %q)", c.Executor, ExecutorPool, ExecutorLimited)
	}
	if c.MinPartitionSize < 1 {
		return fmt.Errorf("min_partition_size must be positive, got %d", c.MinPartitionSize)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return c.Bench.Validate()
}
