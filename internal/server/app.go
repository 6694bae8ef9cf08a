// Package server initializes and runs the application: configuration,
// storage, services and the HTTP endpoint, with graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmorris/notedly/internal/logging"
	"github.com/dmorris/notedly/internal/server/auth"
	"github.com/dmorris/notedly/internal/server/cache"
	"github.com/dmorris/notedly/internal/server/config"
	"github.com/dmorris/notedly/internal/server/httpapi"
	"github.com/dmorris/notedly/internal/server/repositories/repomanager"
	"github.com/dmorris/notedly/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	users  *services.UserService
	notes  *services.NoteService
	tokens *auth.TokenService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidity)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	var noteCache *cache.NoteCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}

		noteCache = cache.NewNoteCache(rdb, cfg.CacheTTL)
	}

	us := services.NewUserService(rm.Users(), hasher, tokens)
	ns := services.NewNoteService(rm.Notes(), noteCache)

	return &App{
		config: cfg,
		logger: logger,
		repos:  rm,
		users:  us,
		notes:  ns,
		tokens: tokens,
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

	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.users, app.notes,
		app.tokens, app.config.CredPerMinute, app.config.CredBurst)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err.Error())
	}
}
