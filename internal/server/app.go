// Package server initializes and runs the reference account backend:
// it opens the database, applies migrations, and serves the envelope
// HTTP API until interrupted.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/weesnerdevelopment/authkit/internal/server/config"
	"github.com/weesnerdevelopment/authkit/internal/server/httpapi"
	"github.com/weesnerdevelopment/authkit/internal/server/migrations"
	"github.com/weesnerdevelopment/authkit/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  zerolog.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(c *config.Config) (*App, error) {

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := users.NewService(users.NewPostgresRepository(db))
	h := httpapi.NewHandler(us, []byte(c.SecretKey), c.TokenValidityDuration, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		handler: httpapi.Router(h, c.AllowedOrigins),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	app.logger.Info().Str("addr", app.config.EndpointAddr).Msg("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error().Err(err).Msg("server error")
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info().Msg("starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error().Err(err).Msg("db close error")
	}
}
