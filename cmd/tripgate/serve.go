package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/zen-systems/tripgate/pkg/httpapi"
	"github.com/zen-systems/tripgate/pkg/observability"
)

func serveCmd() *cobra.Command {
	var sel selection
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := newPlanner(cfg, sel)
			if err != nil {
				return err
			}
			if addrFlag == "" {
				addrFlag = cfg.HTTPAddr
			}

			var reg *prometheus.Registry
			if cfg.MetricsEnabled {
				reg = observability.InitRegistry()
			}
			srv := httpapi.New(p, httpapi.Options{
				Timeout:  cfg.RequestTimeout,
				Registry: reg,
				Logger:   logger,
			})

			httpSrv := &http.Server{
				Addr:              addrFlag,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().
					Str("addr", addrFlag).
					Str("adapter", p.Adapter()).
					Str("model", p.Model()).
					Bool("metrics", reg != nil).
					Msg("API listening")
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&sel.provider, "provider", "", "generation provider (google, anthropic, openai, deepseek, mock)")
	cmd.Flags().StringVar(&sel.model, "model", "", "model or alias")
	cmd.Flags().StringVar(&sel.strategy, "strategy", "", "extraction strategy (cascade, keyword)")

	return cmd
}

// contextWithTimeout bounds a command run and cancels it on interrupt.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, func() {
		cancel()
		stop()
	}
}
