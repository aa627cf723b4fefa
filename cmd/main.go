package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-service/internal/app"
	"project-service/pkg/config"
	"project-service/pkg/database"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"go.uber.org/zap"
)

//go:generate swag init --dir ../ --generalInfo cmd/main.go --output ../internal/docs --outputTypes go

// @title                      Project Service API
// @version                    1.0
// @description                Multi-tenant projects, tasks and project membership.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	log.Info("Starting project service...", cfg.LogConfig()...)

	db, err := database.Open(database.DBConfig{
		DSN:             cfg.DB.GetDSN(),
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		LogLevel:        cfg.DB.LogLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := database.RegisterMetricsCallbacks(db, prometheus.ObserveDBOperation); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	log.Info("Database connection established")

	e, err := app.New(app.Deps{Config: cfg, DB: db, Logger: log})
	if err != nil {
		log.Fatal("Failed to build application", zap.Error(err))
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
