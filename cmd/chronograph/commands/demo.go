package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/spf13/cobra"
)

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build the sample graph, dump it and run two queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, eng *engine.Engine, out io.Writer) error {
				eng.LoadSample()
				if err := eng.Store.Dump(out); err != nil {
					return err
				}
				q := eng.Sequential()
				for _, at := range []graph.Timestamp{6, 12} {
					fmt.Fprintf(out, "Neighbors of 1 at time %d: %v\n", at, q.NeighborsAt(ctx, 1, at))
				}
				return nil
			})
		},
	}
}
