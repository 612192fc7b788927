package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/formstate"
	"github.com/aretw0/formstate/internal/presentation/tui"
	httpAdapter "github.com/aretw0/formstate/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <definition>",
	Short: "Start the HTTP server",
	Long: `Serves the form instances of the definition as a JSON API over HTTP,
with Prometheus metrics on /metrics and per-form change streams (SSE).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		app, err := loadApp(cmd, args[0], true)
		if err != nil {
			return err
		}
		logger := app.Logger

		handler := httpAdapter.NewHandler(app.Engine,
			httpAdapter.WithMetrics(app.Metrics.Handler()),
			httpAdapter.WithVersion(formstate.Version),
			httpAdapter.WithLogger(logger),
		)
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if !quiet {
			tui.PrintBanner(os.Stderr)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting formstate server", "addr", srv.Addr, "store", cfg.Store, "form", app.Engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			_ = app.Close(context.Background())
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-ctx.Done():
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.ShutdownTimeout, "error", err)
				_ = srv.Close()
			}
			if err := app.Close(shutdownCtx); err != nil {
				logger.Warn("Failed to close backend", "error", err)
			}
			logger.Info("formstate server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default $FORMSTATE_ADDR or :8080)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
