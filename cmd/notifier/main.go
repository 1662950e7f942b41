package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/config"
	usecase "logiflowEvents/internal/modules/notifications/application/usecase"
	"logiflowEvents/internal/modules/notifications/infrastructure/postgres"
	transport "logiflowEvents/internal/modules/notifications/interface"
	"logiflowEvents/internal/platform/broker"
	"logiflowEvents/internal/shared/httputil"
	"logiflowEvents/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(cfg.Logging.Directory, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		slog.Error("postgres pool setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewNotificationStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("schema setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	recordUC := usecase.NewRecordUseCase(store)
	listUC := usecase.NewListUseCase(store)

	consumer := broker.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.Notifier.Queue, cfg.Notifier.Bindings).
		WithRetry(cfg.Notifier.RetryMaxAttempts, cfg.Notifier.RetryBaseDelay, cfg.Notifier.RetryMaxDelay)
	go func() {
		if err := consumer.Start(ctx, recordUC.Execute); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("broker consumer stopped", slog.Any("error", err))
		}
	}()

	e := echo.New()
	e.Logger.SetOutput(log.Writer())

	e.GET("/", httputil.NewHealthHandler("NotificationService"))
	e.GET("/api/notifications", transport.NewListHandler(listUC))
	e.GET("/api/notifications/category/:category", transport.NewCategoryHandler(listUC))

	go func() {
		if err := e.Start(":" + cfg.Server.NotifierPort); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()
	e.Close()
}
