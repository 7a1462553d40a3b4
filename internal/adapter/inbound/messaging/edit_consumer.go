// Package messaging consumes prompt edit events from NATS.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/inbound"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	// defaultEditHandlingTimeout bounds the hand-off of one edit to the processor.
	defaultEditHandlingTimeout = 5 * time.Second
)

// Subscriber is the subset of *nats.Conn used by the consumer.
type Subscriber interface {
	QueueSubscribe(subject, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// ConsumerConfig holds configuration for the edit consumer.
type ConsumerConfig struct {
	Subject    string
	QueueGroup string
}

// ConsumerStats counts consumed messages.
type ConsumerStats struct {
	MessagesReceived  int64     `json:"messages_received"`
	MessagesProcessed int64     `json:"messages_processed"`
	MessagesFailed    int64     `json:"messages_failed"`
	BytesReceived     int64     `json:"bytes_received"`
	LastMessageTime   time.Time `json:"last_message_time"`
	LastError         string    `json:"last_error,omitempty"`
}

// EditConsumer subscribes to edit events and forwards them to an
// EditProcessor. Malformed messages are logged and dropped.
type EditConsumer struct {
	config     ConsumerConfig
	subscriber Subscriber
	processor  inbound.EditProcessor
	logger     logging.ApplicationLogger

	mu           sync.RWMutex
	subscription *nats.Subscription
	running      bool
	stats        ConsumerStats
	now          func() time.Time
}

// NewEditConsumer creates an EditConsumer.
func NewEditConsumer(
	config ConsumerConfig,
	subscriber Subscriber,
	processor inbound.EditProcessor,
	logger logging.ApplicationLogger,
) (*EditConsumer, error) {
	if err := validateConsumerConfig(config); err != nil {
		return nil, fmt.Errorf("invalid consumer configuration: %w", err)
	}
	if subscriber == nil {
		return nil, errors.New("subscriber cannot be nil")
	}
	if processor == nil {
		return nil, errors.New("edit processor cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &EditConsumer{
		config:     config,
		subscriber: subscriber,
		processor:  processor,
		logger:     logger.WithComponent("edit-consumer"),
		now:        time.Now,
	}, nil
}

func validateConsumerConfig(config ConsumerConfig) error {
	if config.Subject == "" {
		return errors.New("subject cannot be empty")
	}
	if config.QueueGroup == "" {
		return errors.New("queue group cannot be empty")
	}
	return nil
}

// Start subscribes to the edit subject.
func (c *EditConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("consumer already running for subject %s", c.config.Subject)
	}

	sub, err := c.subscriber.QueueSubscribe(c.config.Subject, c.config.QueueGroup, func(msg *nats.Msg) {
		if err := c.handleMessage(msg); err != nil {
			c.logger.ErrorWithError(ctx, err, "Dropped edit message", logging.Fields{
				"subject": c.config.Subject,
			})
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.config.Subject, err)
	}

	c.subscription = sub
	c.running = true
	c.logger.Info(ctx, "Edit consumer started", logging.Fields{
		"subject":     c.config.Subject,
		"queue_group": c.config.QueueGroup,
	})
	return nil
}

// Stop unsubscribes. Stopping a stopped consumer is a no-op.
func (c *EditConsumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	c.running = false

	if c.subscription != nil {
		if err := c.subscription.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			return fmt.Errorf("failed to unsubscribe from %s: %w", c.config.Subject, err)
		}
		c.subscription = nil
	}

	c.logger.Info(ctx, "Edit consumer stopped", logging.Fields{"subject": c.config.Subject})
	return nil
}

// Running reports whether the consumer is subscribed.
func (c *EditConsumer) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Stats returns a snapshot of the consumer statistics.
func (c *EditConsumer) Stats() ConsumerStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// handleMessage decodes an edit event and hands it to the processor.
func (c *EditConsumer) handleMessage(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("received nil message")
	}

	var event dto.EditEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.recordFailure(len(msg.Data), fmt.Sprintf("failed to unmarshal message: %v", err))
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultEditHandlingTimeout)
	defer cancel()
	ctx = logging.WithCorrelationID(ctx, event.EventID)

	if err := c.processor.ProcessEdit(ctx, event); err != nil {
		c.recordFailure(len(msg.Data), fmt.Sprintf("edit processing failed: %v", err))
		return fmt.Errorf("edit processing failed: %w", err)
	}

	c.mu.Lock()
	c.stats.MessagesReceived++
	c.stats.MessagesProcessed++
	c.stats.BytesReceived += int64(len(msg.Data))
	c.stats.LastMessageTime = event.Timestamp
	c.mu.Unlock()
	return nil
}

func (c *EditConsumer) recordFailure(size int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.MessagesReceived++
	c.stats.MessagesFailed++
	c.stats.BytesReceived += int64(size)
	c.stats.LastError = reason
}
