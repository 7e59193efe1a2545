package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/DrSkyle/chronograph/pkg/config"
	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/query"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

type benchRow struct {
	workload string
	engine   string
	queries  int
	matches  int
	elapsed  time.Duration
}

func (a *app) benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time sequential against parallel queries on generated graphs",
		Long: `Generates a uniform random graph and a single high-degree hub, then times
NeighborsAt on both with the sequential and the parallel engine.

The parallel engine uses --workers, --executor and --min-partition-size.`,
		Example: `  chronograph bench
  chronograph bench --nodes 50000 --edges 2000000 --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, eng *engine.Engine, out io.Writer) error {
				rows, err := runBench(ctx, eng, eng.Config().Bench)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderBench(rows, eng.Exec.Size()))
				return nil
			})
		},
	}

	defaults := config.DefaultBenchConfig()
	flags := cmd.Flags()
	flags.Int("nodes", defaults.Nodes, "Nodes in the random graph")
	flags.Int("edges", defaults.Edges, "Edges in the random graph")
	flags.Int("queries", defaults.Queries, "NeighborsAt calls per engine")
	flags.Uint64("max-timestamp", defaults.MaxTimestamp, "Largest generated timestamp")
	flags.Int64("seed", defaults.Seed, "Random seed")
	flags.Int("hub-fanout", defaults.HubFanout, "Out-degree of the hub node (0 skips the hub workload)")
	a.bindFlags(flags, map[string]string{
		"nodes":         "bench.nodes",
		"edges":         "bench.edges",
		"queries":       "bench.queries",
		"max-timestamp": "bench.max_timestamp",
		"seed":          "bench.seed",
		"hub-fanout":    "bench.hub_fanout",
	})
	return cmd
}

func runBench(ctx context.Context, eng *engine.Engine, cfg config.BenchConfig) ([]benchRow, error) {
	maxTS := graph.Timestamp(cfg.MaxTimestamp)
	rng := rand.New(rand.NewSource(cfg.Seed))

	eng.Generate(graph.GenerateOptions{Nodes: cfg.Nodes, Edges: cfg.Edges, MaxTimestamp: maxTS, Seed: cfg.Seed})
	targets := make([]graph.NodeID, cfg.Queries)
	times := make([]graph.Timestamp, cfg.Queries)
	for i := range targets {
		targets[i] = graph.NodeID(rng.Intn(cfg.Nodes))
		times[i] = graph.RandomTimestamp(rng, maxTS)
	}

	var rows []benchRow
	random := func(q query.Querier) (int, time.Duration) {
		start := time.Now()
		total := 0
		for i, id := range targets {
			total += len(q.NeighborsAt(ctx, id, times[i]))
		}
		return total, time.Since(start)
	}
	rows = append(rows, measure("random", eng, random)...)

	if cfg.HubFanout > 0 {
		eng.Store = graph.GenerateHub(cfg.HubFanout, maxTS, cfg.Seed)
		hub := func(q query.Querier) (int, time.Duration) {
			start := time.Now()
			total := 0
			for _, at := range times {
				total += len(q.NeighborsAt(ctx, 0, at))
			}
			return total, time.Since(start)
		}
		rows = append(rows, measure("hub", eng, hub)...)
	}

	for i := 0; i+1 < len(rows); i += 2 {
		if rows[i].matches != rows[i+1].matches {
			return rows, fmt.Errorf("%s workload: sequential found %d neighbors, parallel %d",
				rows[i].workload, rows[i].matches, rows[i+1].matches)
		}
	}
	eng.Logger.Info("Benchmark complete", "workloads", len(rows)/2, "queries", cfg.Queries)
	return rows, nil
}

func measure(workload string, eng *engine.Engine, fn func(query.Querier) (int, time.Duration)) []benchRow {
	queries := eng.Config().Bench.Queries
	seqMatches, seqElapsed := fn(eng.Sequential())
	parMatches, parElapsed := fn(eng.Parallel())
	return []benchRow{
		{workload: workload, engine: "sequential", queries: queries, matches: seqMatches, elapsed: seqElapsed},
		{workload: workload, engine: "parallel", queries: queries, matches: parMatches, elapsed: parElapsed},
	}
}

func renderBench(rows []benchRow, workers int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
		Headers("WORKLOAD", "ENGINE", "QUERIES", "MATCHES", "TOTAL", "PER QUERY")

	for _, r := range rows {
		per := time.Duration(0)
		if r.queries > 0 {
			per = r.elapsed / time.Duration(r.queries)
		}
		t.Row(r.workload, r.engine, fmt.Sprint(r.queries), fmt.Sprint(r.matches),
			r.elapsed.Round(time.Microsecond).String(), per.String())
	}

	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF99")).Bold(true).
		Render(fmt.Sprintf("BENCHMARK  (%d workers)", workers))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}
