package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// Handler processes a decoded event envelope.  Returning an error leaves the
// message uncommitted so it is redelivered.
type Handler func(ctx context.Context, env *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads a single topic in a consumer group and dispatches each
// message to a handler.  The worker runs one Consumer per subscribed topic.
type Consumer struct {
	reader  ReaderInterface
	topic   string
	handler Handler
	log     logging.Logger

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewConsumer builds a consumer for one topic.
func NewConsumer(cfg config.KafkaConfig, topic string, handler Handler, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})
	return &Consumer{
		reader:  reader,
		topic:   topic,
		handler: handler,
		log:     log.Named("kafka-consumer"),
	}
}

// NewConsumerWithReader wraps an existing reader (for tests).
func NewConsumerWithReader(r ReaderInterface, topic string, handler Handler, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Consumer{reader: r, topic: topic, handler: handler, log: log}
}

// Start begins the fetch loop in a background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return errors.Conflict("consumer already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.loop(loopCtx)

	c.log.Info("consumer started", logging.String("topic", c.topic))
	return nil
}

func (c *Consumer) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("fetch failed", logging.String("topic", c.topic), logging.Err(err))
			continue
		}

		env, err := DecodeEnvelope(msg.Value)
		if err != nil {
			// Undecodable messages would redeliver forever; commit and drop.
			c.log.Error("dropping undecodable message",
				logging.String("topic", c.topic), logging.Err(err))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.handler(ctx, env); err != nil {
			c.log.Error("handler failed, message will redeliver",
				logging.String("topic", c.topic),
				logging.String("event_id", env.EventID),
				logging.Err(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warn("commit failed", logging.String("topic", c.topic), logging.Err(err))
		}
	}
}

// Close stops the loop and closes the reader.
func (c *Consumer) Close() error {
	if !c.running.Swap(false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}
