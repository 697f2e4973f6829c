// Package refresh tells a user's open sessions to re-aggregate.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"livefeed/internal/config"
	"livefeed/internal/queue"
	"livefeed/internal/queue/rabbitmq"
	"livefeed/internal/sse"
)

type Notifier struct {
	pub    queue.Publisher
	hub    *sse.Hub
	prefix string
	log    *zap.Logger
}

func NewNotifier(cfg *config.Config, pub queue.Publisher, hub *sse.Hub, logger *zap.Logger) *Notifier {
	return &Notifier{pub: pub, hub: hub, prefix: cfg.RabbitPublishPrefix, log: logger}
}

type message struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// Notify publishes a refresh for userID. With a broker configured the event
// goes through the exchange so every instance sees it; the local hub is
// used directly otherwise, or when the broker publish fails.
func (n *Notifier) Notify(ctx context.Context, userID, reason string) {
	if userID == "" {
		return
	}
	if rabbitmq.Enabled(n.pub) {
		err := n.publish(ctx, userID, reason)
		if err == nil {
			return
		}
		n.log.Warn("refresh publish failed, delivering locally",
			zap.String("user_id", userID),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	n.hub.Publish(sse.Event{UserID: userID, Type: sse.EventRefresh, Reason: reason})
}

func (n *Notifier) publish(ctx context.Context, userID, reason string) error {
	body, err := json.Marshal(message{UserID: userID, Reason: reason})
	if err != nil {
		return fmt.Errorf("marshal refresh: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return n.pub.Publish(ctx, body, n.prefix+"."+reason)
}
