package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"rentx-admin/pkg/utils/cache"
)

type SessionEventPublisher struct {
	cache  *cache.Cache
	logger *zap.Logger
}

func NewSessionEventPublisher(c *cache.Cache, logger *zap.Logger) *SessionEventPublisher {
	return &SessionEventPublisher{cache: c, logger: logger}
}

// PublishLogout tells every dashboard instance to close userID's open pages.
func (p *SessionEventPublisher) PublishLogout(ctx context.Context, userID string) error {
	payload, err := json.Marshal(Message{Type: EventLogout, UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := p.cache.Publish(ctx, SessionEventsChannel, payload); err != nil {
		p.logger.Warn("failed to publish session event",
			zap.String("type", EventLogout),
			zap.String("user_id", userID),
			zap.Error(err))
		return err
	}
	return nil
}

// ListenSessionEvents feeds published session events into hub until ctx ends.
// ready, when non-nil, is closed once the subscription is active.
func ListenSessionEvents(ctx context.Context, c *cache.Cache, hub *Hub, logger *zap.Logger, ready chan<- struct{}) {
	sub := c.Subscribe(ctx, SessionEventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		logger.Error("session event subscription failed", zap.Error(err))
		return
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Message
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("invalid session event", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			hub.Dispatch(ctx, event)
		}
	}
}
