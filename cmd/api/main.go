package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tasklist-api/configs"
	v1 "tasklist-api/internal/api/v1"
	"tasklist-api/internal/config"
	"tasklist-api/internal/repository"
	"tasklist-api/pkg/database"
	"tasklist-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Inisialisasi logger
	loggers, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to initialise loggers: %v", err)
	}
	defer loggers.Sync()
	loggers.System.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, loggers); err != nil {
		loggers.Error.Error("Application stopped with error", zap.Error(err))
		loggers.Sync()
		os.Exit(1)
	}
	loggers.System.Info("Application stopped")
}

func run(ctx context.Context, cfg configs.Config, loggers *logger.Loggers) error {
	startCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	// Inisialisasi database
	db, err := database.Connect(startCtx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	loggers.System.Info("Database connected", zap.String("dialect", string(db.Dialect)))

	// Buat tabel jika belum ada
	if err := repository.CreateTableIfNotExists(startCtx, db); err != nil {
		return err
	}

	rdb, err := database.ConnectRedis(startCtx, cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		loggers.System.Info("Redis connected, task list cache enabled", zap.String("addr", cfg.RedisAddr()))
	}

	deps, err := config.NewDependencies(cfg, db, rdb, loggers)
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go deps.Hub.Run(hubCtx)

	app := v1.NewApp(deps)

	listenErr := make(chan error, 1)
	go func() {
		loggers.System.Info("Application ready", zap.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	loggers.System.Info("Shutting down")
	stopHub()
	return app.ShutdownWithTimeout(shutdownTimeout)
}
