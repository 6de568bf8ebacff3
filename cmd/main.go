// @title Ames Housing AI Backend API
// @version 1.0
// @description Backend API for house price prediction and prediction history

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/cors"

	_ "AMESAI_BACK-END/docs" // This is required for swagger
	"AMESAI_BACK-END/internal/config"
	"AMESAI_BACK-END/internal/handlers"
	"AMESAI_BACK-END/internal/migrations"
	"AMESAI_BACK-END/internal/predictor"
	"AMESAI_BACK-END/internal/routes"
	"AMESAI_BACK-END/internal/store"
	"AMESAI_BACK-END/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := utils.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		sugar.Fatalw("parse dsn", "err", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "amesai-backend"

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		sugar.Fatalw("connect", "err", err)
	}
	defer pool.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			sugar.Fatalw("ping", "err", err)
		}
	}

	// Schema migrations
	if err := runMigrations(pool); err != nil {
		sugar.Fatalw("migrate", "err", err)
	}

	// Pricing model. A load failure is a degraded state, not a crash: the
	// prediction routes answer 503 while everything else keeps serving.
	model, err := predictor.Load(cfg.Model.Path)
	if err != nil {
		sugar.Warnw("model artifact not loaded, prediction routes degraded", "path", cfg.Model.Path, "err", err)
		model = predictor.Unavailable()
	} else {
		sugar.Infow("model loaded", "path", cfg.Model.Path, "version", model.Version())
	}

	// Stores
	users := store.NewPostgresUsers(pool)
	history := store.NewPostgresHistory(pool)

	// HTTP handlers
	authHandler := handlers.NewAuthHandler(users, cfg, sugar)
	predictHandler := handlers.NewPredictHandler(history, model, sugar)
	historyHandler := handlers.NewHistoryHandler(history, sugar)
	healthHandler := handlers.NewHealthHandler(pool, model)

	// Setup all routes
	routes.SetupRoutes(authHandler, predictHandler, historyHandler, healthHandler, cfg)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(http.DefaultServeMux),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		sugar.Infow("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("ListenAndServe", "err", err)
		}
	}()

	// Wait for SIGINT for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	sugar.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown", "err", err)
	}
	sugar.Infow("server stopped")
}

func runMigrations(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return goose.Up(db, ".")
}
