package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/pkg/session"
)

type inspectOpts struct {
	element string
	json    bool
}

// inspectCommand creates the inspect command, which prints how every
// attribute of each element is constrained.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Show the constraint relationships of a layout's elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.element, "element", "e", "", "only report this element (UUID, identifier or name)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the reports as JSON")

	return cmd
}

func (c *CLI) runInspect(w io.Writer, path string, opts inspectOpts) error {
	l, err := readLayout(path)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	sess := session.New(l, nil, c.editorOptions())
	defer sess.Close()

	var reports []*session.Report
	if opts.element != "" {
		r, err := sess.Describe(opts.element)
		if err != nil {
			return err
		}
		reports = []*session.Report{r}
	} else {
		reports = sess.DescribeAll()
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		printReport(w, r)
	}
	return nil
}
