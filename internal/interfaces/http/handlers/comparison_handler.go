package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appcmp "github.com/verdictio/lexcompare/internal/application/comparison"
	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// ComparisonHandler exposes comparison computation, retrieval, and filtered
// views.
type ComparisonHandler struct {
	svc *appcmp.Service
	log logging.Logger
}

func NewComparisonHandler(svc *appcmp.Service, log logging.Logger) *ComparisonHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ComparisonHandler{svc: svc, log: log.Named("comparison-handler")}
}

type compareRequest struct {
	Document1ID string                  `json:"document1_id"`
	Document2ID string                  `json:"document2_id"`
	Config      domain.ComparisonConfig `json:"config"`
	Async       bool                    `json:"async,omitempty"`
}

// Create runs a comparison synchronously, or enqueues it for the worker when
// async is requested.
func (h *ComparisonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	doc1, err := pathID(req.Document1ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc2, err := pathID(req.Document2ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Async {
		if err := h.svc.Enqueue(r.Context(), doc1, doc2, req.Config); err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusAccepted, map[string]string{"status": "enqueued"})
		return
	}

	cmp, err := h.svc.Compare(r.Context(), doc1, doc2, req.Config)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, cmp)
}

// Get fetches a full comparison aggregate.
func (h *ComparisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	cmp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, cmp)
}

// List pages through comparisons involving a document.
func (h *ComparisonHandler) List(w http.ResponseWriter, r *http.Request) {
	docID, err := pathID(r.URL.Query().Get("document_id"))
	if err != nil {
		writeError(w, r, errors.InvalidParam("document_id query parameter is required"))
		return
	}
	p := parsePagination(r)
	cmps, total, err := h.svc.ListByDocument(r.Context(), docID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p.Total = total
	writePage(w, r, cmps, p)
}

// Delete removes a comparison.
func (h *ComparisonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]string{"deleted": string(id)})
}

// View returns the filtered differences and similarities for a comparison.
// Filters come from query parameters; omitted parameters show everything.
func (h *ComparisonHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	filters, err := filtersFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cmp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, appcmp.ApplyFilters(cmp, filters))
}

// Metrics returns the aggregate similarity metrics only.
func (h *ComparisonHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	cmp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, cmp.Metrics)
}

// Sections returns the distinct section labels across both documents.
func (h *ComparisonHandler) Sections(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	cmp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, cmp.SectionNames())
}

func filtersFromQuery(r *http.Request) (appcmp.Filters, error) {
	f := appcmp.DefaultFilters()
	q := r.URL.Query()

	if v := q.Get("show_differences"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.InvalidParam("invalid show_differences " + v)
		}
		f.ShowDifferences = b
	}
	if v := q.Get("show_similarities"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.InvalidParam("invalid show_similarities " + v)
		}
		f.ShowSimilarities = b
	}
	for _, v := range splitCSV(q.Get("types")) {
		f.Types = append(f.Types, domain.DifferenceType(v))
	}
	for _, v := range splitCSV(q.Get("severities")) {
		f.Severities = append(f.Severities, domain.Severity(v))
	}
	for _, v := range splitCSV(q.Get("categories")) {
		f.Categories = append(f.Categories, domain.DifferenceCategory(v))
	}
	if v := q.Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 1 {
			return f, errors.New(errors.ErrCodeInvalidThreshold, "threshold must be in [0,1]")
		}
		f.Threshold = t
	}
	f.Query = q.Get("query")
	return f, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
