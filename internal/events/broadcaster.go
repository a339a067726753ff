package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/ws"
)

// Broadcaster listens for gameplay events and forwards them to WebSocket
// clients watching the session, whichever API instance they are connected to.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered session event broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "events_broadcaster").Logger(),
	}
}

// Run subscribes to the event channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var evt SessionCompleted
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode session event payload")
		return
	}
	sessionID, err := uuid.Parse(evt.SessionID)
	if err != nil {
		b.logger.Warn().Err(err).Str("session_id", evt.SessionID).Msg("session event without valid session id")
		return
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal session event WS payload")
		return
	}

	msg := ws.Message{
		Type:    ws.TypeSessionEvent,
		Payload: raw,
	}
	if err := b.hub.BroadcastToSession(sessionID, msg); err != nil && !errors.Is(err, ws.ErrConnectionNotFound) {
		b.logger.Warn().Err(err).Str("session_id", evt.SessionID).Msg("failed to broadcast session event")
	}
}
