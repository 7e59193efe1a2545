package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/engine"
	"github.com/DrSkyle/chronograph/pkg/storage"
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		file string
		dir  string
		name string
		list bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the graph as a YAML snapshot",
		Long: `Loads a fixture (or the demo graph) and stores it as <dir>/snapshots/<name>.yaml.
HCL fixtures are converted to YAML on the way. --list prints stored snapshots.`,
		Example: `  chronograph export -f graph.hcl --name nightly
  chronograph export --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, eng *engine.Engine, out io.Writer) error {
				blobs := storage.NewLocalStore(dir)

				if list {
					keys, err := eng.Snapshots(ctx, blobs)
					if err != nil {
						return err
					}
					for _, k := range keys {
						fmt.Fprintln(out, k)
					}
					return nil
				}

				if name == "" || strings.ContainsAny(name, `/\`) {
					return fmt.Errorf("invalid snapshot name %q", name)
				}
				if err := loadGraph(ctx, eng, file); err != nil {
					return err
				}
				key, err := eng.Export(ctx, blobs, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported %s (%s)\n", key, eng.Store.Stats())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture file; defaults to the demo graph")
	cmd.Flags().StringVar(&dir, "dir", defaultSnapshotDir, "Snapshot directory")
	cmd.Flags().StringVar(&name, "name", "graph", "Snapshot name")
	cmd.Flags().BoolVar(&list, "list", false, "List stored snapshots instead of exporting")
	return cmd
}
