package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/pkg/buildinfo"
	"github.com/matzehuels/remotelayout/pkg/config"
	"github.com/matzehuels/remotelayout/pkg/editor"
	layoutio "github.com/matzehuels/remotelayout/pkg/io"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "remotelayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Remotelayout edits constraint-based remote control layouts",
		Long:          `Remotelayout inspects and edits the layout constraints of remote control designs: elements are placed by linear constraints, and interactive operations (translate, align, resize, scale) rewrite those constraints so they stay consistent.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			level := cfg.LogLevel()
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/remotelayout/remotelayout.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// editorOptions returns the editor configuration for this invocation.
func (c *CLI) editorOptions() editor.Options {
	return c.cfg.EditorOptions(c.Logger)
}

// openStore opens the configured layout store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.cfg.Store.Backend, err)
	}
	return st, nil
}

// readLayout imports a layout file, or stdin when path is "-".
func readLayout(path string) (*model.Layout, error) {
	if path == "-" {
		return layoutio.ReadJSON(os.Stdin)
	}
	return layoutio.ImportJSON(path)
}

// writeLayout exports l to path, or to w when path is "-".
func writeLayout(w io.Writer, l *model.Layout, path string) error {
	if path == "-" {
		return layoutio.WriteJSON(l, w)
	}
	return layoutio.ExportJSON(l, path)
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
