package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"committeehub/config"
	"committeehub/internal/adapters/auth"
	deliveryhttp "committeehub/internal/delivery/http"
	"committeehub/internal/delivery/http/controllers"
	"committeehub/internal/delivery/socket"
	"committeehub/internal/domain"
	"committeehub/internal/repository/postgres"
	"committeehub/internal/services"
)

// openDB opens the Postgres pool and checks it answers.
func openDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func newAuthService(cfg *config.Config, db *sql.DB) domain.AuthService {
	tokens := auth.NewJWT(cfg.JWTSecret)
	return services.NewAuthService(
		postgres.NewUserRepository(db),
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		tokens,
		cfg.JWTExpiry,
	)
}

// application is the wired server: HTTP front, event hub, and their dependencies.
type application struct {
	server *http.Server
	hub    *socket.Hub
}

func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) *application {
	authSvc := newAuthService(cfg, db)
	committeeSvc := services.NewCommitteeService(postgres.NewCommitteeRepository(db), authSvc)

	router := socket.NewRouter(logger.With("component", "socket"))
	socket.NewCommitteeHandlers(logger, committeeSvc, authSvc).Register(router)
	hub := socket.NewHub(router, logger.With("component", "hub"))

	// Any origin may connect in development unless an explicit list is configured.
	upgrader := socket.NewUpgrader(cfg.AllowedOrigins, !cfg.IsProduction() && len(cfg.AllowedOrigins) == 0)

	handler := deliveryhttp.NewRouter(logger, cfg.AllowedOrigins, controllers.NewCommitteeController(logger, committeeSvc), hub, upgrader)
	return &application{
		hub: hub,
		server: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// shutdown stops accepting requests, then closes every websocket connection.
func (a *application) shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.hub.Close()
	return err
}
