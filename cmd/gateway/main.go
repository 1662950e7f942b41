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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/config"
	handler "logiflowEvents/internal/modules/realtime/application/handler"
	usecase "logiflowEvents/internal/modules/realtime/application/usecase"
	"logiflowEvents/internal/modules/realtime/domain"
	"logiflowEvents/internal/modules/realtime/infrastructure"
	transport "logiflowEvents/internal/modules/realtime/interface"
	"logiflowEvents/internal/platform/broker"
	"logiflowEvents/internal/shared/auth"
	"logiflowEvents/internal/shared/httputil"
	"logiflowEvents/internal/shared/logging"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
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
	slog.Info("broker config resolved", slog.String("exchange", cfg.AMQP.Exchange), slog.String("queue", cfg.Gateway.Queue), slog.Any("bindings", cfg.Gateway.Bindings))

	hub := infrastructure.NewHub()
	registry := infrastructure.NewHandlerRegistry()

	// Use cases
	broadcastUC := usecase.NewBroadcastUseCase(hub)
	connectUC := usecase.NewConnectUseCase(newVerifier(cfg.Auth), cfg.Gateway.DefaultTopic)

	// One stream handler per queue binding so every consumed routing key has
	// an owner in the registry.
	for _, binding := range cfg.Gateway.Bindings {
		registry.Register(handler.NewEventStreamHandler(binding, broadcastUC))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := broker.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.Gateway.Queue, cfg.Gateway.Bindings)
	go func() {
		err := consumer.Start(ctx, func(ctx context.Context, routingKey string, body []byte) error {
			event, ok := domain.DecodeEvent(body)
			if !ok {
				slog.Warn("non-json delivery, broadcasting raw", slog.String("routingKey", routingKey))
			}
			return registry.Dispatch(ctx, routingKey, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("broker consumer stopped", slog.Any("error", err))
		}
	}()

	// Echo server
	e := echo.New()
	e.Logger.SetOutput(log.Writer())

	e.GET("/", httputil.NewHealthHandler("RealtimeService"))
	e.GET("/api/ws/track", transport.NewTrackWebsocketHandler(hub, connectUC))
	e.POST("/api/ws/publish", transport.NewPublishHTTPHandler(broadcastUC, cfg.Gateway.DefaultTopic))

	go func() {
		if err := e.Start(":" + cfg.Server.GatewayPort); err != nil {
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

// newVerifier prefers the remote auth service and falls back to local HS256
// validation when no verify URL is configured.
func newVerifier(cfg config.AuthConfig) auth.TokenVerifier {
	if cfg.VerifyBaseURL != "" {
		slog.Info("token verification via auth service", slog.String("url", cfg.VerifyBaseURL))
		return auth.NewHTTPVerifier(cfg.VerifyBaseURL, cfg.VerifyTimeout, nil)
	}
	slog.Info("token verification via local jwt secret")
	return auth.NewLocalVerifier(cfg.JWTSecret)
}
