package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/modules/realtime/application/usecase"
	"logiflowEvents/internal/modules/realtime/domain"
	"logiflowEvents/internal/modules/realtime/infrastructure"
	"logiflowEvents/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewTrackWebsocketHandler exposes /api/ws/track. The handshake requires an
// Authorization bearer token verified against the auth service before the
// upgrade; a rejected token never reaches the hub. The initial topic comes
// from the "topic" query parameter.
func NewTrackWebsocketHandler(hub *infrastructure.Hub, connectUC *usecase.ConnectUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		peerIP := c.RealIP()

		token := auth.ExtractBearerToken(c.Request())
		if token == "" {
			slog.Warn("ws track missing bearer token", slog.String("ip", peerIP))
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer cancel()

		output, err := connectUC.Execute(ctx, usecase.ConnectInput{
			Token: token,
			Topic: c.QueryParam("topic"),
		})
		if err != nil {
			status := http.StatusBadGateway
			message := "auth service unavailable"
			switch {
			case errors.Is(err, usecase.ErrMissingToken), errors.Is(err, auth.ErrMissingToken):
				status = http.StatusUnauthorized
				message = "missing token"
			case errors.Is(err, auth.ErrTokenRejected):
				status = http.StatusUnauthorized
				message = "invalid or expired token"
			case errors.Is(err, context.DeadlineExceeded):
				status = http.StatusGatewayTimeout
				message = "auth verification timeout"
			}
			slog.Warn("ws track connect rejected", slog.String("ip", peerIP), slog.Int("status", status), slog.Any("error", err))
			return echo.NewHTTPError(status, message)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws track upgrade failed", slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		userID := auth.Subject(output.Claims)
		client := infrastructure.NewClient(hub, conn, userID, 8)
		hub.Attach(client, output.Topic)

		go client.WritePump()
		go client.ReadPump()

		client.SendFrame(domain.NewWelcomeFrame(output.Claims))
		slog.Info("ws track connected", slog.String("userId", userID), slog.String("topic", output.Topic), slog.String("ip", peerIP))
		return nil
	}
}
