package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the service log instead of a broker.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	p.logger.Info("event", zap.String("topic", topic), zap.String("key", key), zap.Any("payload", payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
