// Package common defines shared value types used across the LexCompare API
// surface: identifiers, pagination, sorting, and the generic response wrapper.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID generates a fresh UUID v4 identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// IsValid reports whether the ID parses as a UUID.
func (id ID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

func (id ID) String() string { return string(id) }

// UserID is a string alias for a user identifier.
type UserID string

// Metadata is an open-ended key-value bag.
type Metadata map[string]interface{}

// Timestamp is a time.Time alias serialized as RFC 3339.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("common: invalid timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Time converts the Timestamp back to a time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// Now returns the current instant as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().UTC()) }

// Pagination defines parameters for paginated requests and responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Normalize clamps page/page_size into sane bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

// Offset returns the SQL offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success    bool         `json:"success"`
	Data       T            `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	Timestamp  Timestamp    `json:"timestamp"`
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)
