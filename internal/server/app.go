// Package server initializes and runs the Snapline backend: PostgreSQL
// storage with migrations, the HTTP API, and the document-sync service over
// NATS, all shut down together on SIGINT/SIGTERM.
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

	"github.com/nats-io/nats.go"

	"github.com/dmitrijs2005/snapline/internal/logging"
	"github.com/dmitrijs2005/snapline/internal/server/api"
	"github.com/dmitrijs2005/snapline/internal/server/config"
	"github.com/dmitrijs2005/snapline/internal/server/docsync"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snapline/internal/server/services"
	"github.com/dmitrijs2005/snapline/internal/server/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	snapService *services.SnapService
	docStore    *docsync.RepoStore
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, c, logger),
		snapService: services.NewSnapService(db, rm, store),
		docStore:    docsync.NewRepoStore(db, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewServer(app.config.HTTPAddr, app.userService, app.snapService, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startDocSync(ctx context.Context, cancelFunc context.CancelFunc) {
	nc, err := nats.Connect(app.config.NATSURL)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}
	defer nc.Close()

	service := docsync.NewService(app.docStore, nc, app.logger)
	runner := docsync.NewRunner(nc, service)

	app.logger.Info(ctx, "document sync listening", "url", app.config.NATSURL)
	if err := runner.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startDocSync(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
