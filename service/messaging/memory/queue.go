package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/bpmnflow/internal/idgen"
	"github.com/viant/bpmnflow/service/messaging"
)

// ErrProcessed is returned when a message is acknowledged twice
var ErrProcessed = errors.New("message already processed")

// Config for memory queue
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns memory queue defaults
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue message
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempt   int
	mu        sync.Mutex
	processed bool
	lastError error
}

// ID returns message id
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Err returns the last Nack error
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Ack acknowledges the message
func (m *Message[T]) Ack() error {
	return m.complete()
}

// Nack requeues the message after RetryDelay until MaxRetries is exceeded,
// then moves it to the dead letter list when enabled
func (m *Message[T]) Nack(err error) error {
	if ackErr := m.complete(); ackErr != nil {
		return ackErr
	}
	m.mu.Lock()
	m.lastError = err
	m.mu.Unlock()
	if m.attempt < m.queue.config.MaxRetries {
		retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempt: m.attempt + 1, lastError: err}
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			m.queue.messages <- retry
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.mu.Lock()
		m.queue.deadLetters = append(m.queue.deadLetters, m)
		m.queue.mu.Unlock()
	}
	return nil
}

func (m *Message[T]) complete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages    chan *Message[T]
	config      Config
	mu          sync.Mutex
	deadLetters []*Message[T]
}

// Publish adds a payload copy to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, queue: q}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain acknowledges and returns all currently queued payloads without blocking
func (q *Queue[T]) Drain() []*T {
	var ret []*T
	for {
		select {
		case msg := <-q.messages:
			_ = msg.Ack()
			ret = append(ret, msg.T())
		default:
			return ret
		}
	}
}

// Size returns the number of queued messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns messages that exceeded MaxRetries
func (q *Queue[T]) DeadLetters() []messaging.Message[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	ret := make([]messaging.Message[T], 0, len(q.deadLetters))
	for _, msg := range q.deadLetters {
		ret = append(ret, msg)
	}
	return ret
}

// NewQueue creates an in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
