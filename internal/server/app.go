// Package server wires configuration, storage, services and the REST
// transport together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/drivenpass/internal/cryptox"
	"github.com/dmitrijs2005/drivenpass/internal/logging"
	"github.com/dmitrijs2005/drivenpass/internal/server/config"
	"github.com/dmitrijs2005/drivenpass/internal/server/metrics"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/drivenpass/internal/server/rest"
	"github.com/dmitrijs2005/drivenpass/internal/server/services"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	server  *rest.Server
	closers []io.Closer
}

// NewApp builds every dependency described by c. Connections opened here
// are released by Run on exit, or immediately if construction fails.
func NewApp(ctx context.Context, c *config.Config) (_ *App, err error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	app := &App{
		config: c,
		logger: logging.New(c.LogBackend, c.LogLevel, os.Stdout),
	}
	defer func() {
		if err != nil {
			_ = app.close()
		}
	}()

	m, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	cipher, err := cryptox.NewCipher(c.CipherKey)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	us := services.NewUserService(m, c)
	cs := services.NewCredentialService(m, cipher)
	ns := services.NewNetworkService(m, cipher)

	app.server = rest.NewServer(rest.Options{
		Address:         c.HTTPAddr,
		CORSOrigins:     c.CORSOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
	}, app.logger, metrics.New(), us, cs, ns)

	return app, nil
}

// initStorage opens the configured storage backend and, for the Redis
// session backend, swaps the session store.
func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	var m repomanager.RepositoryManager

	switch app.config.StorageBackend {
	case config.BackendMemory:
		m = repomanager.NewInMemoryRepositoryManager()
	default:
		db, err := sql.Open("pgx", app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager(db)
		app.closers = append(app.closers, pm)

		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		m = pm
	}

	if app.config.SessionBackend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
			DB:       app.config.RedisDB,
		})
		app.closers = append(app.closers, client)

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		m = repomanager.WithSessionStore(m, sessions.NewRedisRepository(client, app.config.TokenValidityDuration))
	}

	return m, nil
}

func (app *App) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"storage", app.config.StorageBackend,
		"sessions", app.config.SessionBackend,
	)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.close(); err != nil {
		app.logger.Error(ctx, "close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
