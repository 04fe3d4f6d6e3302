package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ComparisonsClient accesses the comparison endpoints.
type ComparisonsClient struct {
	client *Client
}

// ComparisonConfig carries per-request engine parameters.
type ComparisonConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	CandidateWindow     int     `json:"candidate_window,omitempty"`
	Scorer              string  `json:"scorer,omitempty"`
	IgnoreFormatting    bool    `json:"ignore_formatting,omitempty"`
}

// CompareRequest asks the server to compare two documents.
type CompareRequest struct {
	Document1ID string           `json:"document1_id"`
	Document2ID string           `json:"document2_id"`
	Config      ComparisonConfig `json:"config"`
	Async       bool             `json:"async,omitempty"`
}

// DocumentRef identifies one side of a comparison.
type DocumentRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PageCount int    `json:"page_count"`
}

// Metrics summarizes a comparison.
type Metrics struct {
	OverallSimilarity    float64 `json:"overall_similarity"`
	StructuralSimilarity float64 `json:"structural_similarity"`
	ContentSimilarity    float64 `json:"content_similarity"`
	LegalSimilarity      float64 `json:"legal_similarity"`
	MatchedClauses       int     `json:"matched_clauses"`
	TotalDifferences     int     `json:"total_differences"`
	CriticalDifferences  int     `json:"critical_differences"`
	AddedCount           int     `json:"added_count"`
	RemovedCount         int     `json:"removed_count"`
	ModifiedCount        int     `json:"modified_count"`
}

// Comparison is the SDK view of a stored comparison aggregate.  Clause and
// difference payloads are kept as raw maps; callers needing the full typed
// model use the view endpoint.
type Comparison struct {
	ID          string                   `json:"id"`
	Document1   DocumentRef              `json:"document1"`
	Document2   DocumentRef              `json:"document2"`
	Config      ComparisonConfig         `json:"config"`
	Matches     []map[string]interface{} `json:"matches,omitempty"`
	Differences []map[string]interface{} `json:"differences,omitempty"`
	Metrics     Metrics                  `json:"metrics"`
	ScorerName  string                   `json:"scorer_name"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ViewFilters narrows the view endpoint's result.
type ViewFilters struct {
	ShowDifferences  *bool
	ShowSimilarities *bool
	Types            []string
	Severities       []string
	Categories       []string
	Threshold        float64
	Query            string
}

// View is the filtered read model.
type View struct {
	Differences  []map[string]interface{} `json:"differences"`
	Similarities []map[string]interface{} `json:"similarities"`
	Items        []map[string]interface{} `json:"items"`
}

// ExportRequest selects the export format and content.
type ExportRequest struct {
	Format  string         `json:"format"`
	Options *ExportOptions `json:"options,omitempty"`
}

// ExportOptions selects what an export artifact contains.
type ExportOptions struct {
	IncludeSummary    bool     `json:"include_summary"`
	IncludeMetrics    bool     `json:"include_metrics"`
	IncludeHighlights bool     `json:"include_highlights"`
	Sections          []string `json:"sections,omitempty"`
}

// ExportResult describes a stored export artifact.
type ExportResult struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

// Create runs a comparison.  With Async set the server returns before the
// result exists and nil is returned for the comparison.
func (cc *ComparisonsClient) Create(ctx context.Context, req CompareRequest) (*Comparison, error) {
	if req.Async {
		_, err := cc.client.do(ctx, http.MethodPost, "/api/v1/comparisons", req, nil)
		return nil, err
	}
	var cmp Comparison
	if _, err := cc.client.do(ctx, http.MethodPost, "/api/v1/comparisons", req, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// Get fetches one comparison.
func (cc *ComparisonsClient) Get(ctx context.Context, id string) (*Comparison, error) {
	var cmp Comparison
	if _, err := cc.client.do(ctx, http.MethodGet, "/api/v1/comparisons/"+id, nil, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// ListByDocument pages through comparisons involving a document.
func (cc *ComparisonsClient) ListByDocument(ctx context.Context, documentID string, page, pageSize int) ([]Comparison, *Pagination, error) {
	var cmps []Comparison
	path := fmt.Sprintf("/api/v1/comparisons?document_id=%s&page=%d&page_size=%d",
		url.QueryEscape(documentID), page, pageSize)
	p, err := cc.client.do(ctx, http.MethodGet, path, nil, &cmps)
	if err != nil {
		return nil, nil, err
	}
	return cmps, p, nil
}

// Delete removes a comparison.
func (cc *ComparisonsClient) Delete(ctx context.Context, id string) error {
	_, err := cc.client.do(ctx, http.MethodDelete, "/api/v1/comparisons/"+id, nil, nil)
	return err
}

// View fetches the filtered differences and similarities.
func (cc *ComparisonsClient) View(ctx context.Context, id string, f ViewFilters) (*View, error) {
	q := url.Values{}
	if f.ShowDifferences != nil {
		q.Set("show_differences", strconv.FormatBool(*f.ShowDifferences))
	}
	if f.ShowSimilarities != nil {
		q.Set("show_similarities", strconv.FormatBool(*f.ShowSimilarities))
	}
	if len(f.Types) > 0 {
		q.Set("types", strings.Join(f.Types, ","))
	}
	if len(f.Severities) > 0 {
		q.Set("severities", strings.Join(f.Severities, ","))
	}
	if len(f.Categories) > 0 {
		q.Set("categories", strings.Join(f.Categories, ","))
	}
	if f.Threshold > 0 {
		q.Set("threshold", strconv.FormatFloat(f.Threshold, 'f', -1, 64))
	}
	if f.Query != "" {
		q.Set("query", f.Query)
	}

	path := "/api/v1/comparisons/" + id + "/view"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var v View
	if _, err := cc.client.do(ctx, http.MethodGet, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Metrics fetches the aggregate metrics only.
func (cc *ComparisonsClient) Metrics(ctx context.Context, id string) (*Metrics, error) {
	var m Metrics
	if _, err := cc.client.do(ctx, http.MethodGet, "/api/v1/comparisons/"+id+"/metrics", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Export renders a comparison into a stored artifact.
func (cc *ComparisonsClient) Export(ctx context.Context, id string, req ExportRequest) (*ExportResult, error) {
	var res ExportResult
	if _, err := cc.client.do(ctx, http.MethodPost, "/api/v1/comparisons/"+id+"/export", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
