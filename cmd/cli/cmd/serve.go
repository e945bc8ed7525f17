// Package cmd - serve command
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "pricing-guard/adapters/http"
	"pricing-guard/internal/config"
	"pricing-guard/internal/logging"
)

var (
	serveAddr string
	serveCORS bool
)

// serveCmd runs the JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validate and fix API over HTTP",
	Long: `Start an HTTP server exposing the engine:

  POST /api/v1/validate   {"prices": {...}}
  POST /api/v1/fix        {"prices": {...}, "max_iterations": 10, "tau_outlier": 5, "enable_anchor": true}
  GET  /api/v1/sample
  GET  /health, /ready, /metrics

Examples:
  pricing-guard serve
  pricing-guard serve --addr 127.0.0.1:9090 --cors`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", false, "send permissive CORS headers")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings := config.Get()
	if err := settings.Validate(); err != nil {
		return err
	}

	cfg := httpadapter.DefaultConfig()
	cfg.Address = serveAddr
	cfg.EnableCORS = serveCORS

	adapter := httpadapter.New(settings, cfg, logging.Named("http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- adapter.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down", zap.String("address", serveAddr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return adapter.Shutdown(shutdownCtx)
}
