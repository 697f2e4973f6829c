package queue

import "context"

// Consumer runs until ctx is done or the broker connection fails.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher sends a JSON payload to the refresh exchange.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}
