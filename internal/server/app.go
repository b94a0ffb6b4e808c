// Package server initializes and runs the account service application:
// database, migrations, bootstrap provisioning and the HTTP API, with
// graceful shutdown on termination signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/techclub/recruitd/internal/logging"
	"github.com/techclub/recruitd/internal/server/config"
	"github.com/techclub/recruitd/internal/server/httpapi"
	"github.com/techclub/recruitd/internal/server/notifications"
	"github.com/techclub/recruitd/internal/server/repositories/repomanager"
	"github.com/techclub/recruitd/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	accounts *services.AccountService
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	notifier := notifications.NewLogNotifier(logger)

	as := services.NewAccountService(db, m, logger, notifier, c)

	return &App{config: c, logger: logger, db: db, repos: m, accounts: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// bootstrap migrates the schema and provisions the initial administrator
// when bootstrap credentials are configured. It runs to completion before
// the HTTP server starts accepting requests.
func (app *App) bootstrap(ctx context.Context) error {
	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if app.config.AdminEmail == "" {
		app.logger.Info(ctx, "no bootstrap credentials configured, skipping provisioning")
		return nil
	}

	// a bad bootstrap input must not take the service down
	if err := app.accounts.Provision(ctx, app.config.AdminEmail, app.config.AdminName, app.config.AdminPassword); err != nil {
		app.logger.Warn(ctx, "provisioning skipped", "error", err.Error())
	}

	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.accounts)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.bootstrap(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
