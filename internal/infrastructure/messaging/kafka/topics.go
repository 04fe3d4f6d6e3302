// Package kafka publishes and consumes comparison lifecycle events.  The
// apiserver produces requested/completed events; the worker consumes
// requested events and runs comparisons asynchronously.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/pkg/errors"
)

const (
	TopicComparisonRequested = "lexcompare.comparison.requested"
	TopicComparisonCompleted = "lexcompare.comparison.completed"
	TopicExportCompleted     = "lexcompare.export.completed"
)

const eventSource = "lexcompare"

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// ComparisonRequestedPayload asks the worker to run a comparison.
type ComparisonRequestedPayload struct {
	Document1ID string                  `json:"document1_id"`
	Document2ID string                  `json:"document2_id"`
	Config      domain.ComparisonConfig `json:"config"`
	RequestedAt time.Time               `json:"requested_at"`
}

// ComparisonCompletedPayload announces a stored comparison result.
type ComparisonCompletedPayload struct {
	ComparisonID      string    `json:"comparison_id"`
	Document1ID       string    `json:"document1_id"`
	Document2ID       string    `json:"document2_id"`
	OverallSimilarity float64   `json:"overall_similarity"`
	TotalDifferences  int       `json:"total_differences"`
	CompletedAt       time.Time `json:"completed_at"`
}

// ExportCompletedPayload announces a stored export artifact.
type ExportCompletedPayload struct {
	ComparisonID string    `json:"comparison_id"`
	Format       string    `json:"format"`
	ObjectKey    string    `json:"object_key"`
	ExportedAt   time.Time `json:"exported_at"`
}

// NewEnvelope wraps a payload for publication.
func NewEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       raw,
	}, nil
}

// DecodeEnvelope parses an envelope from raw message bytes.
func DecodeEnvelope(data []byte) (*EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event envelope")
	}
	return &env, nil
}
