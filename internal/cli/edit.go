package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/session"
)

// editOpts holds the flags shared by every edit subcommand.
type editOpts struct {
	metrics   string // metrics document with the solved frames
	output    string // output path; defaults to overwriting the input
	selection string // comma-separated element references
}

// editCommand creates the edit command group. Each subcommand applies one
// operation to a layout file and writes the result.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply an editor operation to a layout file",
		Long: `Apply one editor operation to a layout file and write the result.

Interactive operations need the solved frames of the elements, read from a
metrics document (JSON or TOML) whose boxes are keyed by element UUID,
identifier or name:

  $ remotelayout edit align remote.json -m frames.json -s play,pause --anchor play --attribute top`,
	}

	cmd.AddCommand(c.editTranslateCommand())
	cmd.AddCommand(c.editAlignCommand())
	cmd.AddCommand(c.editResizeCommand())
	cmd.AddCommand(c.editScaleCommand())
	cmd.AddCommand(c.editSizeCommand())
	cmd.AddCommand(c.editConstraintsCommand())
	cmd.AddCommand(c.editAddCommand())
	cmd.AddCommand(c.editDeleteCommand())

	return cmd
}

func addEditFlags(cmd *cobra.Command, opts *editOpts, selection, needMetrics bool) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: overwrite the input)")
	if selection {
		cmd.Flags().StringVarP(&opts.selection, "select", "s", "", "comma-separated elements to edit")
		_ = cmd.MarkFlagRequired("select")
	}
	if needMetrics {
		cmd.Flags().StringVarP(&opts.metrics, "metrics", "m", "", "metrics document with the current frames")
		_ = cmd.MarkFlagRequired("metrics")
	}
}

func (c *CLI) editTranslateCommand() *cobra.Command {
	var opts editOpts
	var delta geom.Point

	cmd := &cobra.Command{
		Use:   "translate [layout.json]",
		Short: "Move elements by an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Translated", func(s *session.Session, snap metrics.Snapshot) error {
				return s.Translate(parseList(opts.selection), delta, snap)
			})
		},
	}

	addEditFlags(cmd, &opts, true, true)
	cmd.Flags().Float64Var(&delta.X, "dx", 0, "horizontal offset")
	cmd.Flags().Float64Var(&delta.Y, "dy", 0, "vertical offset")

	return cmd
}

func (c *CLI) editAlignCommand() *cobra.Command {
	var opts editOpts
	var anchor, attribute string

	cmd := &cobra.Command{
		Use:   "align [layout.json]",
		Short: "Align an attribute of elements with an anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Aligned", func(s *session.Session, snap metrics.Snapshot) error {
				return s.Align(parseList(opts.selection), anchor, attribute, snap)
			})
		},
	}

	addEditFlags(cmd, &opts, true, true)
	cmd.Flags().StringVar(&anchor, "anchor", "", "element the others align with (must be selected)")
	cmd.Flags().StringVar(&attribute, "attribute", "", "attribute to align: left, right, top, bottom, centerX, centerY, ...")
	_ = cmd.MarkFlagRequired("anchor")
	_ = cmd.MarkFlagRequired("attribute")

	return cmd
}

func (c *CLI) editResizeCommand() *cobra.Command {
	var opts editOpts
	var anchor, axis string

	cmd := &cobra.Command{
		Use:   "resize [layout.json]",
		Short: "Give elements the width or height of an anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Resized", func(s *session.Session, snap metrics.Snapshot) error {
				return s.Resize(parseList(opts.selection), anchor, axis, snap)
			})
		},
	}

	addEditFlags(cmd, &opts, true, true)
	cmd.Flags().StringVar(&anchor, "anchor", "", "element whose size the others take (must be selected)")
	cmd.Flags().StringVar(&axis, "axis", "", "horizontal or vertical")
	_ = cmd.MarkFlagRequired("anchor")
	_ = cmd.MarkFlagRequired("axis")

	return cmd
}

func (c *CLI) editScaleCommand() *cobra.Command {
	var opts editOpts
	var factor float64

	cmd := &cobra.Command{
		Use:   "scale [layout.json]",
		Short: "Scale elements around their centers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Scaled", func(s *session.Session, snap metrics.Snapshot) error {
				applied, err := s.Scale(parseList(opts.selection), factor, snap)
				if err != nil {
					return err
				}
				if applied != factor {
					loggerFromContext(cmd.Context()).Warn("scale clamped to size bounds", "requested", factor, "applied", applied)
				}
				return nil
			})
		},
	}

	addEditFlags(cmd, &opts, true, true)
	cmd.Flags().Float64VarP(&factor, "factor", "f", 1, "scale factor")

	return cmd
}

func (c *CLI) editSizeCommand() *cobra.Command {
	var opts editOpts
	var element string
	var size geom.Size

	cmd := &cobra.Command{
		Use:   "size [layout.json]",
		Short: "Set the size of one element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Resized", func(s *session.Session, snap metrics.Snapshot) error {
				return s.SetSize(element, size, snap)
			})
		},
	}

	addEditFlags(cmd, &opts, false, true)
	cmd.Flags().StringVarP(&element, "element", "e", "", "element to resize")
	cmd.Flags().Float64Var(&size.Width, "width", 0, "new width")
	cmd.Flags().Float64Var(&size.Height, "height", 0, "new height")
	_ = cmd.MarkFlagRequired("element")

	return cmd
}

func (c *CLI) editConstraintsCommand() *cobra.Command {
	var opts editOpts
	var element, file string

	cmd := &cobra.Command{
		Use:   "constraints [layout.json]",
		Short: "Replace the constraints owned by an element",
		Long: `Replace the constraints owned by an element with the constraints read from
--file (or stdin). Items are referred to by the element's name or identifier
and the names of its subelements.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if file == "" || file == "-" {
				text, err = io.ReadAll(cmd.InOrStdin())
			} else {
				text, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Updated constraints", func(s *session.Session, _ metrics.Snapshot) error {
				return s.SetConstraints(element, string(text))
			})
		},
	}

	addEditFlags(cmd, &opts, false, false)
	cmd.Flags().StringVarP(&element, "element", "e", "", "element owning the constraints")
	cmd.Flags().StringVarP(&file, "file", "f", "", "constraints file (default: stdin)")
	_ = cmd.MarkFlagRequired("element")

	return cmd
}

func (c *CLI) editAddCommand() *cobra.Command {
	var opts editOpts
	var parent, name string

	cmd := &cobra.Command{
		Use:   "add [layout.json]",
		Short: "Add an element under a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Added "+name, func(s *session.Session, _ metrics.Snapshot) error {
				e, err := s.AddElement(parent, name)
				if err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Debug("added element", "uuid", e.UUID, "kind", e.Kind)
				return nil
			})
		},
	}

	addEditFlags(cmd, &opts, false, false)
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent element")
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the new element")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}

func (c *CLI) editDeleteCommand() *cobra.Command {
	var opts editOpts
	var element string

	cmd := &cobra.Command{
		Use:   "delete [layout.json]",
		Short: "Delete an element and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), cmd.OutOrStdout(), args[0], opts, "Deleted "+element, func(s *session.Session, _ metrics.Snapshot) error {
				return s.DeleteElement(element)
			})
		},
	}

	addEditFlags(cmd, &opts, false, false)
	cmd.Flags().StringVarP(&element, "element", "e", "", "element to delete")
	_ = cmd.MarkFlagRequired("element")

	return cmd
}

// runEdit loads the layout at path, applies fn in a session and writes the
// result to opts.output.
func (c *CLI) runEdit(ctx context.Context, w io.Writer, path string, opts editOpts, verb string, fn func(*session.Session, metrics.Snapshot) error) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	l, err := readLayout(path)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	var snap metrics.Snapshot
	if opts.metrics != "" {
		if snap, err = metrics.Load(opts.metrics, l); err != nil {
			return err
		}
	}

	sess := session.New(l, nil, c.editorOptions())
	defer sess.Close()
	if err := fn(sess, snap); err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = path
	}
	if err := writeLayout(w, sess.Layout(), out); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	if out == "-" {
		return nil
	}
	prog.done(verb)
	printFile(out)
	return nil
}
