package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/server"
	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/config"
	"github.com/LuckylisaBemeye/Bomahub/pkg/database"
	"github.com/LuckylisaBemeye/Bomahub/pkg/jwtutil"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web console",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	appConfig, err := config.Load(serviceName, configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
		FilePath:    appConfig.Log.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+serviceName, appConfig.LogConfig()...)

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, appConfig, log)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info("Session store ready", zap.String("store", appConfig.Session.Store))

	manager := session.NewManager(store, apiClientFactory(appConfig), session.Options{
		TTL:             appConfig.Session.TTL,
		RecheckInterval: appConfig.Session.RecheckInterval,
		Logger:          log,
	})
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey: appConfig.Session.SigningKey,
		TTL:        appConfig.Session.TTL,
	})

	srv, err := server.New(appConfig, manager, jwt)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", zap.Error(err))
	}
	log.Info("Goodbye")
	return nil
}

// apiClientFactory gives every session its own cookie jar over a shared,
// instrumented transport.
func apiClientFactory(cfg *config.Config) session.ClientFactory {
	transport := client.NewTransport(http.DefaultTransport)
	return func() *client.Client {
		jar, _ := client.NewJar()
		return client.NewClient(cfg.API.BaseURL,
			client.WithHTTPClient(&http.Client{
				Timeout:   cfg.API.Timeout,
				Transport: transport,
				Jar:       jar,
			}),
			client.WithObserver(prometheus.ObserveUpstream),
		)
	}
}

// openStore builds the session store selected by SESSION_STORE.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case "memory", "":
		store := session.NewMemoryStore(time.Minute)
		return store, func() { _ = store.Close() }, nil

	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "postgres", "sqlite":
		dbConfig := cfg.DB
		dbConfig.Driver = cfg.Session.Store
		db, err := database.Open(&dbConfig, log)
		if err != nil {
			return nil, nil, err
		}
		store, err := session.NewGormStore(db)
		if err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}

		purgeCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			purgeExpired(purgeCtx, store, log)
		}()
		return store, func() {
			cancel()
			<-done
			if err := database.Close(db); err != nil {
				log.Warn("Failed to close database", zap.Error(err))
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

func purgeExpired(ctx context.Context, store *session.GormStore, log *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn("Failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("Purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
