package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"logiflowEvents/internal/modules/realtime/domain"
	"logiflowEvents/internal/shared/auth"
)

// ConnectInput carries the bearer token and the optional initial topic taken
// from the handshake query string.
type ConnectInput struct {
	Token string
	Topic string
}

// ConnectOutput is the result of an accepted handshake: the verified identity
// claims and the topic the connection starts subscribed to.
type ConnectOutput struct {
	Claims map[string]any
	Topic  string
}

var ErrMissingToken = errors.New("missing token")

// ConnectUseCase authorizes a WebSocket handshake. The token is verified
// before the upgrade; a rejected token never reaches the hub.
type ConnectUseCase struct {
	Verifier     auth.TokenVerifier
	DefaultTopic string
}

func NewConnectUseCase(verifier auth.TokenVerifier, defaultTopic string) *ConnectUseCase {
	defaultTopic = strings.TrimSpace(defaultTopic)
	if defaultTopic == "" {
		defaultTopic = domain.DefaultTopic
	}
	return &ConnectUseCase{Verifier: verifier, DefaultTopic: defaultTopic}
}

func (uc *ConnectUseCase) Execute(ctx context.Context, input ConnectInput) (*ConnectOutput, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := uc.Verifier.Verify(ctx, token)
	if err != nil {
		slog.Warn("connect token verification failed", slog.Any("error", err))
		return nil, err
	}

	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		topic = uc.DefaultTopic
	}

	slog.Info("connect token verified", slog.String("subject", auth.Subject(claims)), slog.String("topic", topic))
	return &ConnectOutput{Claims: claims, Topic: topic}, nil
}
