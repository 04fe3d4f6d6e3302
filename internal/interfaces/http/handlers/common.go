// Package handlers implements the HTTP API: documents, comparisons, exports,
// jurisdictions, and health.  All responses use the shared APIResponse
// envelope; errors are mapped from application error codes.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeEnvelope(w, status, common.APIResponse[interface{}]{
		Success:   true,
		Data:      data,
		RequestID: chimw.GetReqID(r.Context()),
		Timestamp: common.Now(),
	})
}

// writePage writes a success envelope with pagination.
func writePage(w http.ResponseWriter, r *http.Request, data interface{}, p common.Pagination) {
	writeEnvelope(w, http.StatusOK, common.APIResponse[interface{}]{
		Success:    true,
		Data:       data,
		Pagination: &p,
		RequestID:  chimw.GetReqID(r.Context()),
		Timestamp:  common.Now(),
	})
}

// writeError maps an error to its HTTP status via the application error code
// and writes an error envelope.  Server-side details are masked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = errors.DefaultMessageForCode(code)
	}

	writeEnvelope(w, status, common.APIResponse[interface{}]{
		Success: false,
		Error: &common.ErrorDetail{
			Code:    string(code),
			Message: message,
		},
		RequestID: chimw.GetReqID(r.Context()),
		Timestamp: common.Now(),
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.InvalidParam("invalid request body: " + err.Error())
	}
	return nil
}

// parsePagination extracts page and page_size query parameters.
func parsePagination(r *http.Request) common.Pagination {
	p := common.Pagination{Page: 1, PageSize: 20}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PageSize = n
		}
	}
	p.Normalize()
	return p
}

// pathID validates a UUID path parameter.
func pathID(value string) (common.ID, error) {
	id := common.ID(value)
	if !id.IsValid() {
		return "", errors.InvalidParam("invalid id " + value)
	}
	return id, nil
}
