package cli

import (
	"cmp"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/pkg/format"
	"github.com/matzehuels/remotelayout/pkg/session"
)

// checkCommand creates the check command. Without --layout it parses
// constraints and echoes them in canonical form; with --layout it verifies
// that every element of the layout is fully determined.
func (c *CLI) checkCommand() *cobra.Command {
	var layoutPath string

	cmd := &cobra.Command{
		Use:   "check [constraints-file]",
		Short: "Parse constraints or verify a layout",
		Long: `Parse constraints from a file (or stdin when no file is given) and print
them in canonical form, one per line:

  $ echo "b.top=a.bottom+10" | remotelayout check
  b.top = a.bottom + 10

With --layout, check that every element of the layout is positioned and sized
by exactly one pair of constraints per axis.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if layoutPath != "" {
				return c.runCheckLayout(layoutPath)
			}
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return runCheckConstraints(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "verify this layout file instead of parsing constraints")

	return cmd
}

func runCheckConstraints(w io.Writer, r io.Reader) error {
	ps, err := format.Parse(r)
	if err != nil {
		return err
	}
	for _, p := range ps {
		fmt.Fprintln(w, p.String())
	}
	return nil
}

func (c *CLI) runCheckLayout(path string) error {
	l, err := readLayout(path)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	sess := session.New(l, nil, c.editorOptions())
	defer sess.Close()

	if err := sess.Check(); err != nil {
		for _, r := range sess.DescribeAll() {
			for _, p := range r.Problems {
				printWarning("%s: %s", cmp.Or(r.Name, r.UUID), p)
			}
		}
		return err
	}
	printSuccess("Layout %s is fully determined", l.Name)
	printStats(len(l.Elements()), len(l.Constraints()))
	return nil
}
