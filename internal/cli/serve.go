package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/moodboard/internal/reply"
	"github.com/jmylchreest/moodboard/internal/web"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the moodboard and reply flows over HTTP",
		Long: `Start a small web UI and JSON API.

Routes:
  GET  /                   upload form and reply form
  POST /moodboard          palette and brand brief page
  POST /reply              reply page
  POST /api/v1/moodboard   multipart "image", optional "colours" and "brief=false"
  POST /api/v1/reply       {"message": "...", "mode": "professional|venting|classify", "mood": "..."}
  GET  /healthz            liveness and palette cache size

The API key must be configured before the server starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.HTTPAddr
			}

			app, err := web.New(web.Config{Addr: addr},
				a.moodboardService(cfg, gen),
				reply.New(gen, a.logger.Named("reply")),
				a.logger.Named("web"))
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $HTTP_ADDR or :8080)")
	return cmd
}
