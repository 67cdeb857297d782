package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lborres/inventrack"
	fiberadapter "github.com/lborres/inventrack/adapters/fiber"
	pgxadapter "github.com/lborres/inventrack/adapters/pgx"
	"github.com/lborres/inventrack/adapters/supabase"
	"github.com/lborres/inventrack/config"
	"github.com/lborres/inventrack/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLogs, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Production: cfg.Env.IsProduction(),
		Dir:        cfg.LogDir,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	_ = logger.Sync()
	closeLogs()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := pgxadapter.Migrate(cfg.DatabaseURL, logger.Named("migrate")); err != nil {
			return err
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	poolConfig.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	storage := pgxadapter.New(pool)
	accounts, bucket := providers(cfg, pool, logger)

	app := fiberadapter.NewApp(fiberadapter.Options{
		Environment:    cfg.Env,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
	})

	sessionConfig := inventrack.SessionConfig{MaxAge: cfg.SessionMaxAge}
	_, err = inventrack.New(inventrack.Config{
		Secret:        cfg.JWTSecret,
		Storage:       storage,
		Accounts:      accounts,
		Bucket:        bucket,
		HTTP:          fiberadapter.New(app),
		Logger:        logger,
		SessionConfig: &sessionConfig,
		Cookie:        cfg.Cookie(),
		WebhookSecret: cfg.WebhookSecret,
		Environment:   cfg.Env,
	})
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("port", cfg.Port),
			zap.String("env", string(cfg.Env)),
			zap.String("auth_provider", cfg.AuthProvider),
		)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// providers picks the account provider and image bucket. Supabase serves
// both remotely; the local provider keeps accounts and images in Postgres.
func providers(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (inventrack.AccountProvider, inventrack.ImageBucket) {
	if cfg.AuthProvider == config.ProviderSupabase {
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil, logger.Named("supabase"))
		return supabase.NewAccounts(client), supabase.NewBucket(client, cfg.SupabaseServiceKey, supabase.DefaultBucket)
	}

	return pgxadapter.NewLocalAccounts(pool, nil, cfg.LocalAutoConfirm),
		pgxadapter.NewTableBucket(pool, cfg.StoragePublicBaseURL)
}
