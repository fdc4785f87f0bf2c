package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-ocr-benchmark/internal/container"
	"go-ocr-benchmark/internal/logger"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the benchmark HTTP API",
		Long: `Serve starts an HTTP server exposing the evaluation and comparison
operations, plus read access to previously saved summaries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			c, err := container.New(cfg, opts.imagesDir)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:         cfg.Server.Address(),
				Handler:      c.Handler(),
				ReadTimeout:  cfg.Server.RequestTimeout.Std(),
				WriteTimeout: cfg.Server.RequestTimeout.Std(),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.WithFields(logrus.Fields{
					"address": cfg.Server.Address(),
					"timeout": cfg.Server.RequestTimeout.Std(),
				}).Info("Starting HTTP server")

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			logger.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				return err
			}

			logger.Info("Server exited")
			return nil
		},
	}
}
