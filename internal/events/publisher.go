package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher pushes gameplay events onto Redis Pub/Sub.
type Publisher struct {
	redis   *redis.Client
	channel string
	logger  zerolog.Logger
}

// NewPublisher creates a publisher for the given channel.
func NewPublisher(redis *redis.Client, channel string, logger zerolog.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		redis:   redis,
		channel: channel,
		logger:  logger.With().Str("component", "events_publisher").Logger(),
	}
}

// PublishSessionCompleted encodes and publishes a completion event.
func (p *Publisher) PublishSessionCompleted(ctx context.Context, evt SessionCompleted) error {
	if p.redis == nil {
		return nil
	}
	evt.Type = TypeSessionCompleted
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	p.logger.Debug().Str("session_id", evt.SessionID).Str("channel", p.channel).Msg("session completed event published")
	return nil
}
