package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/justifier/internal/logging"
	jserver "github.com/HendryAvila/justifier/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		metricsAddr string
		kbFiles     []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: "Start the MCP server on stdin/stdout. Logs go to stderr.\n\n" +
			"KB files are imported at startup and re-imported whenever they change on disk.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			cfg.KB.Files = append(cfg.KB.Files, kbFiles...)

			app, cleanup, err := jserver.New(cfg, logger)
			if err != nil {
				return errors.Wrap(err, "creating server")
			}
			defer cleanup()

			// Graceful shutdown on interrupt.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if app.Watcher != nil {
				if err := app.Watcher.Start(ctx); err != nil {
					return errors.Wrap(err, "starting kb watcher")
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				// stdin closing ends the session and everything else with it.
				defer stop()
				err := server.NewStdioServer(app.MCP).Listen(gctx, os.Stdin, os.Stdout)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})

			if cfg.Metrics.Addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", app.Metrics.Handler())
				srv := &http.Server{
					Addr:              cfg.Metrics.Addr,
					Handler:           mux,
					ReadHeaderTimeout: 10 * time.Second,
				}
				g.Go(func() error {
					logger.Infow("Serving metrics", "address", cfg.Metrics.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return errors.Wrap(err, "metrics endpoint")
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			logger.Infow("MCP server listening on stdio", logging.FieldSession, app.SessionID)
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringSliceVar(&kbFiles, "kb", nil, "YAML knowledge-base file to import and watch (repeatable)")
	return cmd
}
