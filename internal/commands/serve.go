package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/finsight/internal/api"
)

const sessionPurgeInterval = time.Hour

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return runServe(a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(a *app) error {
	log := a.log
	ctx := a.withLogger(context.Background())

	// Expired sessions are purged in the background until shutdown.
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go purgeSessions(workerCtx, a)

	router := api.NewRouter(api.Services{
		Auth:        a.auth,
		Importer:    a.ingest,
		Reconciler:  a.reconciler,
		Diagnostics: a.diagnostics,
		Maintenance: a.maintenance,
		Categorizer: a.categorizer,
	}, a.cfg.Server, log)
	server := api.NewServer(a.cfg.Server, router)
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("db", a.cfg.Database.Path).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error().Err(err).Msg("Failed to start server")
		return err
	}

	log.Info().Msg("Shutting down server...")
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}

func purgeSessions(ctx context.Context, a *app) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		n, err := a.auth.PurgeExpired(ctx)
		if err != nil {
			a.log.Warn().Err(err).Msg("purge expired sessions")
		} else if n > 0 {
			a.log.Info().Int64("purged", n).Msg("expired sessions purged")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
