package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/remotelayout/internal/api"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and editor operations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Info("opened store", "backend", c.cfg.Store.Backend)
	srv := api.New(st, c.editorOptions(), logger)
	return srv.Serve(ctx, addr, c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout)
}
