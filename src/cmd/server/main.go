package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/unimonitor/sports-activity-service/src/internal/api"
	"github.com/unimonitor/sports-activity-service/src/internal/auth"
	"github.com/unimonitor/sports-activity-service/src/internal/config"
	"github.com/unimonitor/sports-activity-service/src/internal/service"
	"github.com/unimonitor/sports-activity-service/src/internal/store"
)

func main() {
	cfg := config.Load()

	seedFlag := flag.Bool("seed", false, "seed demo data into an empty database")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)
	sugar := logger.Sugar()

	db, err := connectDBWithRetry(cfg.DatabaseURL, 15, 2*time.Second, sugar)
	if err != nil {
		sugar.Fatalf("failed to connect to db: %v", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			sugar.Errorf("failed to close db: %v", err)
		}
	}(db)

	if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsDir, sugar); err != nil {
		sugar.Fatalf("migrations failed: %v", err)
	}
	sugar.Info("migrations applied")

	repos := store.NewRepositories(db, logger)

	if *seedFlag || cfg.SeedOnStartup {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := repos.Seed(ctx); err != nil {
			cancel()
			sugar.Fatalf("seeding failed: %v", err)
		}
		cancel()
	}

	svc := service.NewService(repos, logger)
	authMW := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, svc, logger)
	h := api.NewHandler(svc, logger, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(api.RequestIDMiddleware, api.LoggerMiddleware(logger), api.MetricsMiddleware, api.Recoverer)
	api.RegisterRoutes(r, h, authMW)

	srv := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	sugar.Infof("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("server forced to shutdown: %v", err)
	}
	sugar.Info("server stopped")
}

func connectDBWithRetry(dsn string, attempts int, delay time.Duration, sugar *zap.SugaredLogger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < attempts; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db, nil
			}
		}
		sugar.Warnf("db ping error: %v (attempt %d/%d)", err, i+1, attempts)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("db connect failed: %w", err)
}

func runMigrations(dsn, migrationsDir string, sugar *zap.SugaredLogger) error {
	sugar.Infof("running migrations from %s", migrationsDir)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("migration open db: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsDir,
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		sugar.Info("no new migrations — already up to date")
	}

	return nil
}
