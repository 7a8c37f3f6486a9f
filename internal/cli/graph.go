package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

type graphOpts struct {
	output   string
	format   string
	detailed bool
	owners   bool
}

// graphCommand creates the graph command, which exports the constraint graph
// of a layout.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph [layout.json]",
		Short: "Export the constraint graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with multipliers and priorities")
	cmd.Flags().BoolVar(&opts.owners, "owners", false, "colour edges by owning element")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	l, err := readLayout(path)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	src := dot.ToDOT(l, dot.Options{Detailed: opts.detailed, Owners: opts.owners})

	data := []byte(src)
	if opts.format == formatSVG {
		err = spin(cmd.Context(), cmd.ErrOrStderr(), "Rendering graph...", func() error {
			var rerr error
			data, rerr = dot.RenderSVG(cmd.Context(), src)
			return rerr
		})
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Exported %s graph", opts.format)
	printFile(opts.output)
	return nil
}
