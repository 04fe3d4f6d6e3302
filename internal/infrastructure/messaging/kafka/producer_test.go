package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

type fakeWriter struct {
	messages []kafkago.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_ComparisonRequested(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)

	doc1 := common.NewID()
	doc2 := common.NewID()
	cfg := domain.ComparisonConfig{SimilarityThreshold: 0.8, CandidateWindow: 4}

	require.NoError(t, p.ComparisonRequested(context.Background(), doc1, doc2, cfg))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicComparisonRequested, msg.Topic)
	assert.Equal(t, string(doc1), string(msg.Key))

	env, err := DecodeEnvelope(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "comparison.requested", env.EventType)
	assert.Equal(t, "lexcompare", env.Source)
	assert.Equal(t, "1.0", env.SchemaVersion)
	assert.NotEmpty(t, env.EventID)

	var payload ComparisonRequestedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, string(doc1), payload.Document1ID)
	assert.Equal(t, string(doc2), payload.Document2ID)
	assert.Equal(t, 0.8, payload.Config.SimilarityThreshold)
}

func TestProducer_ComparisonCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)

	cmp := &domain.DocumentComparison{
		ID:        common.NewID(),
		Document1: domain.DocumentRef{ID: common.NewID(), Name: "a"},
		Document2: domain.DocumentRef{ID: common.NewID(), Name: "b"},
		Metrics:   domain.ComparisonMetrics{OverallSimilarity: 0.91, TotalDifferences: 3},
	}

	require.NoError(t, p.ComparisonCompleted(context.Background(), cmp))
	require.Len(t, w.messages, 1)
	assert.Equal(t, TopicComparisonCompleted, w.messages[0].Topic)

	env, err := DecodeEnvelope(w.messages[0].Value)
	require.NoError(t, err)

	var payload ComparisonCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, string(cmp.ID), payload.ComparisonID)
	assert.Equal(t, 0.91, payload.OverallSimilarity)
	assert.Equal(t, 3, payload.TotalDifferences)
}

func TestProducer_ExportCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)

	id := common.NewID()
	require.NoError(t, p.ExportCompleted(context.Background(), id, "json", "exports/x.json"))
	require.Len(t, w.messages, 1)
	assert.Equal(t, TopicExportCompleted, w.messages[0].Topic)

	env, err := DecodeEnvelope(w.messages[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "export.completed", env.EventType)

	var payload ExportCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "json", payload.Format)
	assert.Equal(t, "exports/x.json", payload.ObjectKey)
}

func TestProducer_WriteFailureWrapped(t *testing.T) {
	w := &fakeWriter{writeErr: stderrors.New("broker down")}
	p := NewProducerWithWriter(w, nil)

	err := p.ExportCompleted(context.Background(), common.NewID(), "json", "k")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestProducer_CloseIsIdempotentAndFinal(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.ExportCompleted(context.Background(), common.NewID(), "json", "k")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.Empty(t, w.messages)
}
