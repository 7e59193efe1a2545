package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	nodeLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD")).Bold(true)
	edgeLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E2E8F0"))
	emptyLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	statsStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF99")).Bold(true)
)

func (a *app) dumpCmd() *cobra.Command {
	var (
		src   graphSource
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every node and its outgoing edges",
		Example: `  chronograph dump -f graph.yaml
  chronograph dump -f graph.hcl --plain
  chronograph dump --snapshot snapshots/nightly.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, eng *engine.Engine, out io.Writer) error {
				if err := src.load(ctx, eng); err != nil {
					return err
				}
				if plain {
					return eng.Store.Dump(out)
				}

				var buf bytes.Buffer
				if err := eng.Store.Dump(&buf); err != nil {
					return err
				}
				for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
					fmt.Fprintln(out, styleDumpLine(line))
				}
				fmt.Fprintln(out, statsStyle.Render(eng.Store.Stats().String()))
				return nil
			})
		},
	}
	src.bind(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "Unstyled output")
	return cmd
}

func styleDumpLine(line string) string {
	switch {
	case strings.HasPrefix(line, "Node "):
		return nodeLineStyle.Render(line)
	case strings.Contains(line, "(no outgoing edges)"):
		return emptyLineStyle.Render(line)
	default:
		return edgeLineStyle.Render(line)
	}
}
