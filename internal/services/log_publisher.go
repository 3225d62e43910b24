package services

import (
	"context"

	"go.uber.org/zap"
)

// logPublisher stands in for NATS when no broker is configured.
type logPublisher struct {
	logger *zap.Logger
}

func (p *logPublisher) Publish(_ context.Context, eventType string, payload []byte) error {
	p.logger.Info("Event relayed", zap.String("event_type", eventType), zap.ByteString("payload", payload))
	return nil
}
