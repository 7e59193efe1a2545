package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/config"
	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/DrSkyle/chronograph/pkg/storage"
	"github.com/DrSkyle/chronograph/pkg/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the per-invocation config state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "chronograph",
		Short: "In-memory temporal graph toolkit",
		Long: `Chronograph - Temporal Multigraph Explorer

Load. Query. Step through time.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (YAML)")
	flags.Int("workers", defaults.Workers, "Parallel query workers")
	flags.String("executor", defaults.Executor, "Executor kind: pool or limited")
	flags.Int("min-partition-size", defaults.MinPartitionSize, "Smallest adjacency slice per task")
	flags.String("log-level", defaults.LogLevel, "debug, info, warn or error")
	flags.String("log-format", defaults.LogFormat, "json or text")
	flags.Bool("log-timestamps", defaults.LogTimestamps, "Include timestamps in logs")
	flags.String("otel-endpoint", "", "OTLP/HTTP trace endpoint")
	flags.Bool("no-telemetry", defaults.SkipTelemetry, "Disable tracing and metrics")
	flags.String("metrics-addr", defaults.MetricsAddr, "Serve Prometheus metrics on this address")

	a.setDefaults(defaults)
	a.bindFlags(flags, map[string]string{
		"workers":            "workers",
		"executor":           "executor",
		"min-partition-size": "min_partition_size",
		"log-level":          "log_level",
		"log-format":         "log_format",
		"log-timestamps":     "log_timestamps",
		"otel-endpoint":      "otel_endpoint",
		"no-telemetry":       "skip_telemetry",
		"metrics-addr":       "metrics_addr",
	})

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderFutureGlassHelp(cmd)
	})

	rootCmd.AddCommand(
		a.demoCmd(),
		a.dumpCmd(),
		a.queryCmd(),
		a.benchCmd(),
		a.exploreCmd(),
		a.exportCmd(),
		versionCmd(),
		completionCmd(rootCmd),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setDefaults(d config.Config) {
	a.v.SetDefault("workers", d.Workers)
	a.v.SetDefault("executor", d.Executor)
	a.v.SetDefault("min_partition_size", d.MinPartitionSize)
	a.v.SetDefault("log_level", d.LogLevel)
	a.v.SetDefault("log_format", d.LogFormat)
	a.v.SetDefault("log_timestamps", d.LogTimestamps)
	a.v.SetDefault("otel_endpoint", d.OtelEndpoint)
	a.v.SetDefault("skip_telemetry", d.SkipTelemetry)
	a.v.SetDefault("metrics_addr", d.MetricsAddr)
	a.v.SetDefault("bench.nodes", d.Bench.Nodes)
	a.v.SetDefault("bench.edges", d.Bench.Edges)
	a.v.SetDefault("bench.queries", d.Bench.Queries)
	a.v.SetDefault("bench.max_timestamp", d.Bench.MaxTimestamp)
	a.v.SetDefault("bench.seed", d.Bench.Seed)
	a.v.SetDefault("bench.hub_fanout", d.Bench.HubFanout)
}

// bindFlags maps flag names onto config keys.
func (a *app) bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

func (a *app) initConfig() error {
	a.v.SetEnvPrefix("CHRONOGRAPH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(a.cfgFile)
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", a.cfgFile, err)
	}
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// newEngine builds an engine from the resolved config. Logs go to stderr so
// stdout carries only command output. One engine runs per invocation, so it
// owns the process-wide telemetry.
func (a *app) newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return engine.New(cmd.Context(),
		engine.WithConfig(cfg),
		engine.WithLogOutput(cmd.ErrOrStderr()),
		engine.WithGlobalTelemetry(),
	)
}

// run builds an engine, runs fn in a traced and panic-safe scope and tears the engine down.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, eng *engine.Engine, out io.Writer) error) error {
	eng, err := a.newEngine(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer eng.Close(ctx)

	return eng.Do(ctx, "cli."+cmd.Name(), func(ctx context.Context) error {
		return fn(ctx, eng, cmd.OutOrStdout())
	})
}

// defaultSnapshotDir is where export writes and --snapshot reads.
const defaultSnapshotDir = "chronograph-out"

// graphSource is the input of a read command: a fixture file, a stored
// snapshot, or the demo graph when neither is given.
type graphSource struct {
	file     string
	snapshot string
	dir      string
}

func (g *graphSource) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&g.file, "file", "f", "", "Fixture file (.yaml, .yml or .hcl); defaults to the demo graph")
	flags.StringVar(&g.snapshot, "snapshot", "", "Snapshot key as printed by export --list")
	flags.StringVar(&g.dir, "dir", defaultSnapshotDir, "Snapshot directory")
	cmd.MarkFlagsMutuallyExclusive("file", "snapshot")
}

func (g *graphSource) load(ctx context.Context, eng *engine.Engine) error {
	if g.snapshot != "" {
		return eng.Import(ctx, storage.NewLocalStore(g.dir), g.snapshot)
	}
	return loadGraph(ctx, eng, g.file)
}

// loadGraph loads path into eng, or the demo graph when path is empty.
func loadGraph(ctx context.Context, eng *engine.Engine, path string) error {
	if path == "" {
		eng.LoadSample()
		return nil
	}
	return eng.Load(ctx, path)
}

func renderFutureGlassHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("CHRONOGRAPH %s", version.Current)))
	fmt.Fprintln(out, cmd.Short)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	if cmd.Example != "" {
		fmt.Fprintln(out, titleStyle.Render("EXAMPLES"))
		fmt.Fprintln(out, cmd.Example)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-20s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(output))
	})
	fmt.Fprintln(out)
}
