package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PrefaceCoding/BlogCloneProject/app/config"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
	"github.com/PrefaceCoding/BlogCloneProject/app/routes"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
			}
			return RunServer(ctx, cfg, rootOpts.Logger, listener)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :8000 (overrides config)")
	return cmd
}

// RunServer serves the blog on listener until ctx is done, then drains
// in-flight requests within the configured shutdown timeout.
func RunServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, listener net.Listener) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		listener.Close()
		return err
	}
	defer store.Close()

	router, err := routes.SetupRoutes(routes.Options{
		Store:        store,
		Logger:       logger,
		SessionTTL:   cfg.Auth.SessionTTL,
		BcryptCost:   cfg.Auth.BcryptCost,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.Auth.SecureCookie,
	})
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[server] starting on %v (storage: %s %s)", listener.Addr(), cfg.Storage.Driver, cfg.Storage.Path)
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("[server] HTTP server shutdown error: %v", err)
		return err
	}
	logger.Info("[server] HTTP server shut down gracefully")
	return nil
}

// openStore opens the configured store, creating parent directories.
func openStore(cfg *config.Config, logger *logrus.Logger) (repositories.Store, error) {
	dir := cfg.Storage.Path
	if cfg.Storage.Driver == repositories.DriverSQLite {
		dir = filepath.Dir(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return repositories.Open(cfg.Storage.Driver, cfg.Storage.Path, badgerLogger(logger))
}

// badgerLogger routes badger's internal messages through logrus.
func badgerLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("component", "badger")
}
