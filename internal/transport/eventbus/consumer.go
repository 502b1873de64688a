package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"namecard/internal/domain"
	"namecard/internal/logging"
)

const defaultMaxRetryElapsed = time.Minute

var errMalformedEvent = errors.New("malformed event")

// CardUpdatedEvent is published upstream whenever a card changes.
type CardUpdatedEvent struct {
	ID string `json:"id"`
}

type KafkaConfig struct {
	Brokers   []string
	GroupID   string
	CardTopic string
}

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventBusConsumer drops cached cards when upstream reports a change, so
// the next export reads fresh data.
type EventBusConsumer struct {
	cache      domain.CardCache
	topic      string
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
	maxElapsed time.Duration
}

func NewEventBusConsumer(cache domain.CardCache, cfg KafkaConfig, logger *zap.Logger) *EventBusConsumer {
	return &EventBusConsumer{
		cache:  cache,
		topic:  cfg.CardTopic,
		logger: logging.OrNop(logger),
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		maxElapsed: defaultMaxRetryElapsed,
	}
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    []string{cfg.CardTopic},
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
		MaxBytes:       1e6,
	})
}

// HandleMessage invalidates the card named by msg. Errors wrapping
// errMalformedEvent will never succeed on redelivery.
func (c *EventBusConsumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	if msg.Topic != c.topic {
		c.logger.Warn("unknown event topic", zap.String("topic", msg.Topic))
		return nil
	}

	var event CardUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%w: failed to decode %s event: %v", errMalformedEvent, msg.Topic, err)
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("%w: invalid card id %q: %v", errMalformedEvent, event.ID, err)
	}

	c.logger.Info("invalidating cached card", zap.String("id", id.String()))
	return c.cache.InvalidateCard(ctx, id)
}

// Run consumes until ctx is cancelled. Malformed events are logged and
// committed. A failed invalidation is retried with backoff and its offset is
// only committed once it succeeds; if retries run out Run returns without
// committing so the event is redelivered to the next consumer.
func (c *EventBusConsumer) Run(ctx context.Context, reader MessageReader) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			switch {
			case errors.Is(err, errMalformedEvent):
				c.logger.Error("dropping malformed event",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			case ctx.Err() != nil:
				return nil
			default:
				return fmt.Errorf("failed to handle %s offset %d: %w", msg.Topic, msg.Offset, err)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to commit offset: %w", err)
		}
	}
}

func (c *EventBusConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.HandleMessage(ctx, msg)
		if errors.Is(err, errMalformedEvent) {
			return struct{}{}, backoff.Permanent(err)
		}
		if err != nil {
			c.logger.Warn("cache invalidation failed, retrying",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxElapsedTime(c.maxElapsed),
	)
	return err
}
