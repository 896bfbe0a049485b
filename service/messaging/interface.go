package messaging

import (
	"context"
)

// Queue represents a message queue for any payload type
type Queue[T any] interface {
	// Publish adds a message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message, it blocks until a message is available
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// ID returns message id
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
