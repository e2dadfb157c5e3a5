// Package server assembles the FitTrack API server: it opens the database,
// applies migrations, connects the optional Redis revocation store, builds
// the services and runs the HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	"github.com/dmitrijs2005/fittrack/internal/server/config"
	"github.com/dmitrijs2005/fittrack/internal/server/httpapi"
	"github.com/dmitrijs2005/fittrack/internal/server/metrics"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fittrack/internal/server/services"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	redis          *redis.Client
	metrics        *metrics.Metrics
	authService    *services.AuthService
	profileService *services.ProfileService
	goalService    *services.GoalService
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, logging.Options{Backend: c.LogBackend, Level: c.LogLevel, File: c.LogFile})

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret key generation error: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "No secret key configured, generated an ephemeral one; sessions will not survive a restart")
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if c.MigrateOnStart {
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		logger.Info(ctx, "Migrations applied")
	}

	var revocations auth.RevocationStore = auth.NoopRevocationStore{}
	var rdb *redis.Client
	if c.RedisAddr != "" {
		rdb, err = initRedis(ctx, c)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		revocations = auth.NewRedisRevocationStore(rdb)
		logger.Info(ctx, "Redis connection established", "address", c.RedisAddr)
	} else {
		logger.Warn(ctx, "No Redis address configured, logout will not revoke issued tokens")
	}

	m := metrics.New()

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		redis:          rdb,
		metrics:        m,
		authService:    services.NewAuthService(db, rm, c, revocations),
		profileService: services.NewProfileService(db, rm, c),
		goalService:    services.NewGoalService(db, rm, m),
	}, nil
}

func initRedis(ctx context.Context, c *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.RedisAddr,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
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

func (app *App) handler() *httpapi.Handler {
	return httpapi.NewHandler(app.authService, app.profileService, app.goalService, app.db, app.logger,
		httpapi.Options{
			SecureCookie:   app.config.SecureCookie,
			AllowedOrigins: app.config.AllowedOrigins,
			AuthRateLimit:  app.config.AuthRateLimit,
		})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	r := httpapi.NewRouter(app.handler(), app.metrics)
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.logger, r, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the HTTP server has stopped, either because of a signal
// or a serve error, and then releases the database and Redis connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err.Error())
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
