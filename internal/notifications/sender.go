package notifications

import (
	"context"

	"tably/pkg/logger"

	"github.com/google/uuid"
)

// Sender delivers one outbound customer message and returns an opaque
// reference for it. Delivery internals (SMS, push, WhatsApp) live
// behind the broker; the core only needs the reference.
type Sender interface {
	SendMessage(ctx context.Context, destination, body string) (string, error)
}

// LogSender is the fallback sender used when no broker is configured.
// Messages are logged instead of delivered, which keeps local
// development and tests free of infrastructure.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) SendMessage(ctx context.Context, destination, body string) (string, error) {
	ref := uuid.New().String()
	s.logger.WithFields(map[string]interface{}{
		"destination": destination,
		"message_ref": ref,
		"body":        body,
	}).InfoContext(ctx, "outbound message (log sender)")
	return ref, nil
}
