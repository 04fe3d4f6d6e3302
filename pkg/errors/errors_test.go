package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeComparisonNotFound, "comparison not found")
	assert.Equal(t, "[CMP_001] comparison not found", e.Error())

	withDetail := e.WithDetail("id=abc")
	assert.Equal(t, "[CMP_001] comparison not found: id=abc", withDetail.Error())
	// WithDetail must not mutate the receiver.
	assert.Empty(t, e.Detail)
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := Wrap(cause, ErrCodeDatabaseError, "query failed")
	require.NotNil(t, e)
	assert.Equal(t, ErrCodeDatabaseError, e.Code)
	assert.True(t, stderrors.Is(e, cause))

	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "no-op"))
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeSegmentationFailed, "unparseable document")
	outer := Wrap(inner, ErrCodeUnknown, "comparison aborted")
	assert.Equal(t, ErrCodeSegmentationFailed, outer.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeAlignmentTimeout, "budget exceeded")
	wrapped := fmt.Errorf("pipeline: %w", inner)
	assert.True(t, IsCode(wrapped, ErrCodeAlignmentTimeout))
	assert.False(t, IsCode(wrapped, ErrCodeExportFailed))
	assert.False(t, IsCode(nil, ErrCodeExportFailed))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeDocumentNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodeComparisonNotFound, "gone")))
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.False(t, IsNotFound(New(ErrCodeInternal, "boom")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeExportFailed, "downstream 502")))
	assert.True(t, IsRetryable(New(ErrCodeAlignmentTimeout, "budget exceeded")))
	// Segmentation failures are terminal.
	assert.False(t, IsRetryable(New(ErrCodeSegmentationFailed, "empty")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, ErrCodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeCacheError, GetCode(New(ErrCodeCacheError, "miss")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeComparisonNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusForCode(ErrCodeSegmentationFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CMP", ModuleForCode(ErrCodeAlignmentTimeout))
	assert.Equal(t, "SEG", ModuleForCode(ErrCodeEmptyDocument))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}

func TestNilReceiverSafety(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("x"))
	assert.Nil(t, e.WithCause(stderrors.New("y")))
}
