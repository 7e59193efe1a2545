package config

import "fmt"

// BenchConfig sizes the random graph and query load used by the bench command.
type BenchConfig struct {
	Nodes int `mapstructure:"nodes"`
	Edges int `mapstructure:"edges"`
	// Queries is the number of NeighborsAt calls timed per engine.
	Queries int `mapstructure:"queries"`
	// MaxTimestamp bounds generated edge timestamps.
	MaxTimestamp uint64 `mapstructure:"max_timestamp"`
	Seed         int64  `mapstructure:"seed"`
	// HubFanout adds one high-degree node so partitioned scans have work to split.
	HubFanout int `mapstructure:"hub_fanout"`
}

// DefaultBenchConfig returns a load that finishes in a few seconds on a laptop.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Nodes:        10_000,
		Edges:        200_000,
		Queries:      2_000,
		MaxTimestamp: 1_000,
		Seed:         1,
		HubFanout:    100_000,
	}
}

func (b BenchConfig) Validate() error {
	if b.Nodes < 1 {
		return fmt.Errorf("bench.nodes must be positive, got %d", b.Nodes)
	}
	if b.Edges < 0 || b.Queries < 0 || b.HubFanout < 0 {
		return fmt.Errorf("bench sizes must not be negative")
	}
	return nil
}
