package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"

	ErrCodeUnknown ErrorCode = "COMMON_000"
	CodeOK         ErrorCode = "OK"
)

// Document module error codes
const (
	ErrCodeDocumentNotFound      ErrorCode = "DOC_001"
	ErrCodeDocumentAlreadyExists ErrorCode = "DOC_002"
	ErrCodeDocumentContentError  ErrorCode = "DOC_003"
)

// Segmentation error codes.  Segmentation failures are terminal for the
// comparison that requested them: the user must re-upload a parseable
// document before the comparison can be retried.
const (
	ErrCodeSegmentationFailed ErrorCode = "SEG_001"
	ErrCodeEmptyDocument      ErrorCode = "SEG_002"
)

// Comparison module error codes
const (
	ErrCodeComparisonNotFound ErrorCode = "CMP_001"
	ErrCodeAlignmentTimeout   ErrorCode = "CMP_002"
	ErrCodeAlignmentFailed    ErrorCode = "CMP_003"
	// ErrCodeStaleResultDiscarded is an internal signal emitted when a
	// superseded comparison computation resolves after cancellation.  It is
	// never surfaced to API callers.
	ErrCodeStaleResultDiscarded ErrorCode = "CMP_004"
	ErrCodeInvalidThreshold     ErrorCode = "CMP_005"
)

// Export module error codes
const (
	ErrCodeExportFailed            ErrorCode = "EXP_001"
	ErrCodeExportFormatUnsupported ErrorCode = "EXP_002"
	ErrCodeExportInProgress        ErrorCode = "EXP_003"
)

// Jurisdiction module error codes
const (
	ErrCodeJurisdictionUnknown ErrorCode = "JUR_001"
	ErrCodeRuleNotFound        ErrorCode = "JUR_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDocumentNotFound:      http.StatusNotFound,
	ErrCodeDocumentAlreadyExists: http.StatusConflict,
	ErrCodeDocumentContentError:  http.StatusUnprocessableEntity,

	ErrCodeSegmentationFailed: http.StatusUnprocessableEntity,
	ErrCodeEmptyDocument:      http.StatusUnprocessableEntity,

	ErrCodeComparisonNotFound:   http.StatusNotFound,
	ErrCodeAlignmentTimeout:     http.StatusGatewayTimeout,
	ErrCodeAlignmentFailed:      http.StatusInternalServerError,
	ErrCodeStaleResultDiscarded: http.StatusInternalServerError,
	ErrCodeInvalidThreshold:     http.StatusBadRequest,

	ErrCodeExportFailed:            http.StatusBadGateway,
	ErrCodeExportFormatUnsupported: http.StatusBadRequest,
	ErrCodeExportInProgress:        http.StatusConflict,

	ErrCodeJurisdictionUnknown: http.StatusBadRequest,
	ErrCodeRuleNotFound:        http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDocumentNotFound:      "document not found",
	ErrCodeDocumentAlreadyExists: "document already exists",
	ErrCodeDocumentContentError:  "document content unavailable",

	ErrCodeSegmentationFailed: "document could not be segmented into clauses",
	ErrCodeEmptyDocument:      "document text is empty",

	ErrCodeComparisonNotFound:   "comparison not found",
	ErrCodeAlignmentTimeout:     "clause alignment exceeded its time budget",
	ErrCodeAlignmentFailed:      "clause alignment failed",
	ErrCodeStaleResultDiscarded: "superseded comparison result discarded",
	ErrCodeInvalidThreshold:     "similarity threshold must be between 0 and 1",

	ErrCodeExportFailed:            "comparison export failed",
	ErrCodeExportFormatUnsupported: "unsupported export format",
	ErrCodeExportInProgress:        "an export is already in progress",

	ErrCodeJurisdictionUnknown: "unknown jurisdiction",
	ErrCodeRuleNotFound:        "jurisdiction rule not found",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("CMP", "SEG", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
