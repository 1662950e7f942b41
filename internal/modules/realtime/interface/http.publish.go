package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/modules/realtime/application/usecase"
	"logiflowEvents/internal/modules/realtime/domain"
)

// PublishResponse reports the topic used and how many connections received
// the event.
type PublishResponse struct {
	Topic     string `json:"topic"`
	Delivered int    `json:"delivered"`
}

// NewPublishHTTPHandler exposes POST /api/ws/publish, the fallback path
// producers use when the broker is unreachable. The fan-out topic is the
// envelope's type tag, defaulting when absent. Events arriving here bypass
// the notification consumer entirely.
func NewPublishHTTPHandler(broadcastUC *usecase.BroadcastUseCase, defaultTopic string) echo.HandlerFunc {
	defaultTopic = strings.TrimSpace(defaultTopic)
	if defaultTopic == "" {
		defaultTopic = domain.DefaultTopic
	}
	return func(c echo.Context) error {
		var event domain.Event
		if err := c.Bind(&event); err != nil {
			slog.Warn("publish http invalid body", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadRequest, "invalid event envelope")
		}

		topic := strings.TrimSpace(event.Type)
		if topic == "" {
			topic = defaultTopic
		}

		delivered := broadcastUC.Execute(c.Request().Context(), topic, event)
		slog.Info("publish http fan-out", slog.String("topic", topic), slog.Int("delivered", delivered))

		return c.JSON(http.StatusOK, PublishResponse{Topic: topic, Delivered: delivered})
	}
}
