package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     chan kafkago.Message
	committed []kafkago.Message
	closed    bool
}

func newFakeReader(msgs ...kafkago.Message) *fakeReader {
	q := make(chan kafkago.Message, len(msgs)+1)
	for _, m := range msgs {
		q <- m
	}
	return &fakeReader{queue: q}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	select {
	case msg := <-r.queue:
		return msg, nil
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *fakeReader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func envelopeMessage(t *testing.T, eventType string, payload interface{}) kafkago.Message {
	t.Helper()
	env, err := NewEnvelope(eventType, payload)
	require.NoError(t, err)
	value, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Topic: TopicComparisonRequested, Value: value}
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	msg := envelopeMessage(t, "comparison.requested", ComparisonRequestedPayload{
		Document1ID: "d1", Document2ID: "d2",
	})
	reader := newFakeReader(msg)

	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, env *EventEnvelope) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, env.EventType)
		return nil
	}

	c := NewConsumerWithReader(reader, TopicComparisonRequested, handler, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	require.Eventually(t, func() bool {
		return reader.commitCount() == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"comparison.requested"}, seen)
}

func TestConsumer_HandlerErrorLeavesUncommitted(t *testing.T) {
	msg := envelopeMessage(t, "comparison.requested", ComparisonRequestedPayload{})
	reader := newFakeReader(msg)

	handled := make(chan struct{}, 1)
	handler := func(context.Context, *EventEnvelope) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return stderrors.New("transient failure")
	}

	c := NewConsumerWithReader(reader, TopicComparisonRequested, handler, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("handler never invoked")
	}
	assert.Equal(t, 0, reader.commitCount())
}

func TestConsumer_UndecodableMessageCommittedAndDropped(t *testing.T) {
	reader := newFakeReader(kafkago.Message{Topic: TopicComparisonRequested, Value: []byte("{not json")})

	handlerCalled := false
	handler := func(context.Context, *EventEnvelope) error {
		handlerCalled = true
		return nil
	}

	c := NewConsumerWithReader(reader, TopicComparisonRequested, handler, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	require.Eventually(t, func() bool {
		return reader.commitCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.False(t, handlerCalled)
}

func TestConsumer_StartTwiceConflicts(t *testing.T) {
	reader := newFakeReader()
	c := NewConsumerWithReader(reader, TopicComparisonRequested, func(context.Context, *EventEnvelope) error { return nil }, nil)

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	err := c.Start(context.Background())
	require.Error(t, err)
}

func TestConsumer_CloseStopsLoop(t *testing.T) {
	reader := newFakeReader()
	c := NewConsumerWithReader(reader, TopicComparisonRequested, func(context.Context, *EventEnvelope) error { return nil }, nil)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Close())
	assert.True(t, reader.isClosed())

	// Closing again is a no-op.
	require.NoError(t, c.Close())
}
