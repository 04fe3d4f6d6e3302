package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/verdictio/lexcompare/internal/config"
	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes comparison and export events.  It implements both the
// application comparison.Publisher and export.Publisher ports.
type Producer struct {
	writer WriterInterface
	log    logging.Logger
	closed atomic.Bool
}

// NewProducer builds a producer writing to the configured brokers.  The
// topic is carried per message so one writer serves all topics.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  retries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
	}
	return &Producer{writer: writer, log: log.Named("kafka-producer")}
}

// NewProducerWithWriter wraps an existing writer (for tests).
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: w, log: log}
}

func (p *Producer) publish(ctx context.Context, topic, key string, eventType string, payload interface{}) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeServiceUnavailable, "kafka producer is closed")
	}

	env, err := NewEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to publish to "+topic)
	}

	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", env.EventID))
	return nil
}

// ComparisonRequested publishes a request for asynchronous comparison.
func (p *Producer) ComparisonRequested(ctx context.Context, doc1, doc2 common.ID, cfg domain.ComparisonConfig) error {
	return p.publish(ctx, TopicComparisonRequested, string(doc1),
		"comparison.requested", ComparisonRequestedPayload{
			Document1ID: string(doc1),
			Document2ID: string(doc2),
			Config:      cfg,
			RequestedAt: time.Now().UTC(),
		})
}

// ComparisonCompleted publishes a completion announcement.
func (p *Producer) ComparisonCompleted(ctx context.Context, cmp *domain.DocumentComparison) error {
	return p.publish(ctx, TopicComparisonCompleted, string(cmp.ID),
		"comparison.completed", ComparisonCompletedPayload{
			ComparisonID:      string(cmp.ID),
			Document1ID:       string(cmp.Document1.ID),
			Document2ID:       string(cmp.Document2.ID),
			OverallSimilarity: cmp.Metrics.OverallSimilarity,
			TotalDifferences:  cmp.Metrics.TotalDifferences,
			CompletedAt:       time.Now().UTC(),
		})
}

// ExportCompleted publishes an export artifact announcement.
func (p *Producer) ExportCompleted(ctx context.Context, comparisonID common.ID, format, key string) error {
	return p.publish(ctx, TopicExportCompleted, string(comparisonID),
		"export.completed", ExportCompletedPayload{
			ComparisonID: string(comparisonID),
			Format:       format,
			ObjectKey:    key,
			ExportedAt:   time.Now().UTC(),
		})
}

// Close flushes and closes the underlying writer, once.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
