package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/syncron/awareness-go/internal/core/service"
	"github.com/syncron/awareness-go/internal/infra/buildinfo"
	"github.com/syncron/awareness-go/internal/infra/confloader"
	"github.com/syncron/awareness-go/internal/infra/shutdown"
	"github.com/syncron/awareness-go/internal/infra/tlsroots"
	"github.com/syncron/awareness-go/internal/server/config"
	"github.com/syncron/awareness-go/internal/server/httpserver"
	"github.com/syncron/awareness-go/internal/server/httpserver/handler"
	"github.com/syncron/awareness-go/internal/storage/memory"
	"github.com/syncron/awareness-go/internal/storage/redisstore"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
	"github.com/syncron/awareness-go/internal/telemetry/metric"
	"github.com/syncron/awareness-go/internal/telemetry/tracer"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

const (
	serviceName     = "syncron-security-awareness"
	shutdownTimeout = 30 * time.Second
)

// sessionStore is a SessionRepository the server can probe and close.
type sessionStore interface {
	service.SessionRepository
	Ping(ctx context.Context) error
	Close() error
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server",
		Flags:  []cli.Flag{configFlag},
		Action: func(c *cli.Context) error { return serve(c.Context, c.String("config")) },
	}
}

func serve(ctx context.Context, configFile string) error {
	cfg, devSecret, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting awareness-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile,
		"environment", cfg.App.Environment)
	if devSecret {
		log.Warn("no token secret configured, using the development secret; set AWARENESS_TOKEN__SECRET before deploying")
	}
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log.Slog())

	tp, err := tracer.New(ctx, serviceName, buildinfo.Version, cfg.Telemetry.TracingEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	shutdownHandler.OnShutdown("tracer", tp.Shutdown)

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	shutdownHandler.OnShutdown("storage", func(context.Context) error { return store.Close() })
	log.Info("session store ready", "backend", cfg.Storage.Backend)

	codec, err := progresstoken.New([]byte(cfg.Token.Secret), progresstoken.WithLogger(log.Slog()))
	if err != nil {
		return fmt.Errorf("init token codec: %w", err)
	}

	svcOpts := []service.Option{
		service.WithPolicy(policyFromConfig(cfg)),
		service.WithLogger(log),
	}
	var registry *metric.Registry
	if cfg.Telemetry.MetricsEnabled {
		registry = metric.NewRegistry()
		svcOpts = append(svcOpts, service.WithRecorder(registry))
	}
	svc := service.NewProgressService(store, codec, svcOpts...)

	routerCfg := &httpserver.RouterConfig{
		Handler:            handler.New(svc, handler.WithLogger(log), handler.WithReadyCheck(store.Ping)),
		Logger:             log,
		CORSAllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		EnableAudit:        true,
	}
	if registry != nil {
		if err := registry.RegisterSessionCount(svc.ActiveSessions); err != nil {
			return fmt.Errorf("register session gauge: %w", err)
		}
		routerCfg.Observer = registry
		routerCfg.MetricsHandler = registry.Handler()
	}

	sweeper := service.NewSweeper(svc, cfg.Session.SweepInterval)
	sweeper.Start()
	shutdownHandler.OnShutdown("sweeper", sweeper.Stop)

	var serverTLS *tls.Config
	if cfg.Server.HTTP.TLSCertFile != "" {
		reloader, err := tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log.Slog()))
		if err != nil {
			return fmt.Errorf("init tls: %w", err)
		}
		reloader.Start()
		shutdownHandler.OnShutdown("cert reloader", func(context.Context) error { return reloader.Stop() })
		serverTLS = reloader.ServerConfig()
	}

	httpServer := httpserver.New(httpserver.Config{
		Address:      cfg.Server.HTTP.Address,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
		TLSConfig:    serverTLS,
	}, httpserver.NewRouter(routerCfg))
	shutdownHandler.OnShutdown("http", httpServer.Shutdown)

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr(), "tls", httpServer.TLS())
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	if configFile != "" {
		if stop, err := watchLogLevel(configFile, log); err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error { return stop() })
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads defaults, then the file and environment, then verifies.
// It reports whether the development secret was substituted.
func loadConfig(configFile string) (*config.ServerConfig, bool, error) {
	cfg := config.Default()

	var opts []confloader.Option
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, false, err
	}

	devSecret := config.ApplyDevSecret(cfg)

	if err := config.Verify(cfg); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, devSecret, nil
}

// initLogger initializes the structured logger and installs it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: serviceName,
		Version: buildinfo.Version,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initStorage opens the configured session store and checks it responds.
func initStorage(ctx context.Context, cfg *config.ServerConfig) (sessionStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		opts := &redis.Options{
			Addr:     cfg.Storage.Redis.Address,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		}
		if cfg.Storage.Redis.TLS {
			tlsCfg, err := redisTLSConfig(cfg.Storage.Redis)
			if err != nil {
				return nil, err
			}
			opts.TLSConfig = tlsCfg
		}
		client := redis.NewClient(opts)
		store := redisstore.New(client,
			redisstore.WithKeyPrefix(cfg.Storage.Redis.KeyPrefix),
			redisstore.WithTTL(cfg.Session.IdleTimeout+cfg.Session.SweepInterval),
		)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}

// redisTLSConfig verifies the Redis server by the host part of its address.
func redisTLSConfig(rc config.RedisConfig) (*tls.Config, error) {
	host, _, err := net.SplitHostPort(rc.Address)
	if err != nil {
		host = rc.Address
	}
	return tlsroots.ClientConfig(rc.CAFile, host)
}

// policyFromConfig maps configuration onto the registry policy.
func policyFromConfig(cfg *config.ServerConfig) service.Policy {
	return service.Policy{
		StartTTL:          cfg.Token.StartTTL,
		ProgressTTL:       cfg.Token.ProgressTTL,
		CompletionTTL:     cfg.Token.CompletionTTL,
		IdleTimeout:       cfg.Session.IdleTimeout,
		MinCompletionStep: cfg.Session.MinCompletionStep,
		WelcomeMessage:    cfg.Experience.WelcomeMessage,
		CompletionMessage: cfg.Experience.CompletionMessage,
		RedirectURL:       cfg.Experience.RedirectURL,
	}
}

// watchLogLevel re-reads configFile on change and applies log.level.
// Other settings need a restart.
func watchLogLevel(configFile string, log logger.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, _, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
