package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"committeehub/config"
	"committeehub/internal/repository/postgres"
)

type serveOptions struct {
	port    string
	migrate bool
}

// bindServeFlags registers serve's flags on cmd. The root command binds them too.
func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.port, "port", "", "listen port (default: PORT or 8080)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")
}

func newServeCommand(global *globalOptions, opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		Long: `Start the server and accept websocket connections on /ws.

Examples:
  # Start with configuration from the environment / .env
  committeehub serve

  # Apply pending migrations first, then serve on port 9090
  committeehub serve --migrate --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), global, opts)
		},
	}
	bindServeFlags(cmd, opts)
	return cmd
}

func runServe(ctx context.Context, global *globalOptions, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	logger := config.NewLogger(global.logLevel)

	if opts.migrate {
		if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	app := newApplication(cfg, db, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", app.server.Addr, "env", cfg.Environment)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
		return err
	}
	return nil
}
