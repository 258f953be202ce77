package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-communityhub/internal/config"
	"backend-communityhub/internal/db"
	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain
var logOutput io.Writer = os.Stderr

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	ensureSchema    func(context.Context, db.Querier) error
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		ensureSchema:    db.EnsureSchema,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOutput})
	warnInsecureDefaults(cfg)

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logging.Err(err).Msg("postgres connection failed")
	}
	if pg != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := deps.ensureSchema(ctx, pg); err != nil {
			logging.Err(err).Msg("schema setup failed")
		}
		cancel()
	}

	rdb := deps.connectRedis(cfg)
	if rdb == nil {
		logging.Warn().Msg("redis not configured; logins will fail")
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, signals, nil); err != nil {
		logging.Err(err).Msg("server exited with error")
	}
}

func warnInsecureDefaults(cfg config.Config) {
	if cfg.CredentialScheme != config.SchemeBcrypt {
		logging.Warn().Str("scheme", cfg.CredentialScheme).Msg("credentials are stored and compared in plaintext")
	}
	if cfg.SessionSecret == "" || cfg.SessionSecret == config.DefaultSessionSecret {
		logging.Warn().Msg("SESSION_SECRET is unset or the development default; session tokens are forgeable")
	}
	if !cfg.CookieSecure {
		logging.Warn().Msg("session cookie is sent without the Secure flag")
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, pg, rdb)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.ServerPort).Msg("listening")
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
