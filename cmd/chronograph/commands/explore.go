package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) exploreCmd() *cobra.Command {
	var (
		src      graphSource
		at       uint64
		parallel bool
	)
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Step through time interactively (TUI)",
		Example: `  chronograph explore -f graph.yaml --at 10
  chronograph explore --parallel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, eng *engine.Engine, out io.Writer) error {
				if err := src.load(ctx, eng); err != nil {
					return err
				}

				model := tui.NewModel(ctx, eng.Store, eng.Querier(parallel), graph.Timestamp(at))
				p := tea.NewProgram(model,
					tea.WithContext(ctx),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(out),
					tea.WithAltScreen(),
				)
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("explorer: %w", err)
				}
				return nil
			})
		},
	}
	src.bind(cmd)
	cmd.Flags().Uint64Var(&at, "at", 0, "Starting time")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Use the parallel engine")
	return cmd
}
