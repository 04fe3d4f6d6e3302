package http

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcmp "github.com/verdictio/lexcompare/internal/application/comparison"
	appdoc "github.com/verdictio/lexcompare/internal/application/document"
	"github.com/verdictio/lexcompare/internal/config"
	domaincmp "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/domain/jurisdiction"
	"github.com/verdictio/lexcompare/internal/engine/pipeline"
	"github.com/verdictio/lexcompare/internal/infrastructure/export"
	"github.com/verdictio/lexcompare/internal/interfaces/http/handlers"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ── in-memory fakes ──────────────────────────────────────────────────────────

type memDocRepo struct {
	mu   sync.Mutex
	docs map[common.ID]*document.Document
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{docs: make(map[common.ID]*document.Document)}
}

func (r *memDocRepo) Save(_ context.Context, doc *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memDocRepo) GetByID(_ context.Context, id common.ID) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document "+string(id)+" not found")
	}
	cp := *doc
	return &cp, nil
}

func (r *memDocRepo) List(_ context.Context, p common.Pagination) ([]*document.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*document.Document
	for _, doc := range r.docs {
		all = append(all, doc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	start := p.Offset()
	if start > len(all) {
		return nil, total, nil
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memDocRepo) Delete(_ context.Context, id common.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "document "+string(id)+" not found")
	}
	delete(r.docs, id)
	return nil
}

type memCmpRepo struct {
	mu   sync.Mutex
	cmps map[common.ID]*domaincmp.DocumentComparison
}

func newMemCmpRepo() *memCmpRepo {
	return &memCmpRepo{cmps: make(map[common.ID]*domaincmp.DocumentComparison)}
}

func (r *memCmpRepo) Save(_ context.Context, cmp *domaincmp.DocumentComparison) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cmps[cmp.ID]; ok {
		return errors.Conflict("comparison " + string(cmp.ID) + " already exists")
	}
	r.cmps[cmp.ID] = cmp
	return nil
}

func (r *memCmpRepo) GetByID(_ context.Context, id common.ID) (*domaincmp.DocumentComparison, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmp, ok := r.cmps[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeComparisonNotFound, "comparison "+string(id)+" not found")
	}
	return cmp, nil
}

func (r *memCmpRepo) ListByDocument(_ context.Context, docID common.ID, _ common.Pagination) ([]*domaincmp.DocumentComparison, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domaincmp.DocumentComparison
	for _, cmp := range r.cmps {
		if cmp.Document1.ID == docID || cmp.Document2.ID == docID {
			out = append(out, cmp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCmpRepo) Delete(_ context.Context, id common.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cmps[id]; !ok {
		return errors.New(errors.ErrCodeComparisonNotFound, "comparison "+string(id)+" not found")
	}
	delete(r.cmps, id)
	return nil
}

type memArtifacts struct {
	mu     sync.Mutex
	stored map[string][]byte
}

func (a *memArtifacts) PutArtifact(_ context.Context, key, _ string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stored == nil {
		a.stored = make(map[string][]byte)
	}
	a.stored[key] = data
	return nil
}

func (a *memArtifacts) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://minio.local/lexcompare-exports/" + key, nil
}

// ── harness ─────────────────────────────────────────────────────────────────

type apiHarness struct {
	router  http.Handler
	docRepo *memDocRepo
	cmpRepo *memCmpRepo
}

func newAPIHarness(t *testing.T, checkers ...handlers.Checker) *apiHarness {
	t.Helper()

	docRepo := newMemDocRepo()
	cmpRepo := newMemCmpRepo()

	docSvc := appdoc.NewService(docRepo, nil, nil)
	pipe := pipeline.New(config.EngineConfig{}, nil)
	cmpSvc := appcmp.NewService(docRepo, cmpRepo, nil, pipe, nil, nil)
	exporter := export.NewJSONExporter(&memArtifacts{}, nil, nil)

	router := NewRouter(RouterConfig{
		DocumentHandler:     handlers.NewDocumentHandler(docSvc, nil),
		ComparisonHandler:   handlers.NewComparisonHandler(cmpSvc, nil),
		ExportHandler:       handlers.NewExportHandler(cmpSvc, exporter, nil),
		JurisdictionHandler: handlers.NewJurisdictionHandler(jurisdiction.NewStaticProvider(), nil),
		HealthHandler:       handlers.NewHealthHandler(nil, checkers...),
	})
	return &apiHarness{router: router, docRepo: docRepo, cmpRepo: cmpRepo}
}

type envelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Error      *common.ErrorDetail `json:"error"`
	Pagination *common.Pagination  `json:"pagination"`
	RequestID  string              `json:"request_id"`
}

func (h *apiHarness) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func (h *apiHarness) registerDocument(t *testing.T, name, text string) common.ID {
	t.Helper()
	rec, env := h.do(t, "POST", "/api/v1/documents", map[string]string{
		"name": name, "type": "contract_of_sale", "jurisdiction": "vic", "text": text,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var doc document.Document
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	return doc.ID
}

const contractV1 = `1. Purchase Price. The purchaser must pay the vendor the sum of $800,000 at settlement.
2. Settlement. Settlement must occur within 60 days of the day of sale.
3. Deposit. The purchaser must pay a deposit of 10% of the price on signing.`

const contractV2 = `1. Purchase Price. The purchaser must pay the vendor the sum of $850,000 at settlement.
2. Settlement. Settlement must occur within 30 days of the day of sale.
4. Insurance. The vendor must maintain insurance over the property until settlement.`

func (h *apiHarness) createComparison(t *testing.T) common.ID {
	t.Helper()
	doc1 := h.registerDocument(t, "Contract v1", contractV1)
	doc2 := h.registerDocument(t, "Contract v2", contractV2)

	rec, env := h.do(t, "POST", "/api/v1/comparisons", map[string]interface{}{
		"document1_id": string(doc1),
		"document2_id": string(doc2),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var cmp domaincmp.DocumentComparison
	require.NoError(t, json.Unmarshal(env.Data, &cmp))
	return cmp.ID
}

// ── documents ───────────────────────────────────────────────────────────────

func TestAPI_DocumentLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	id := h.registerDocument(t, "Contract of Sale", contractV1)

	rec, env := h.do(t, "GET", "/api/v1/documents/"+string(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)

	var doc document.Document
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "Contract of Sale", doc.Name)
	assert.Equal(t, "VIC", doc.Jurisdiction)
	assert.Equal(t, 1, doc.PageCount)

	rec, _ = h.do(t, "DELETE", "/api/v1/documents/"+string(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = h.do(t, "GET", "/api/v1/documents/"+string(id), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(errors.ErrCodeDocumentNotFound), env.Error.Code)
}

func TestAPI_DocumentList_Paginated(t *testing.T) {
	h := newAPIHarness(t)
	for i := 0; i < 5; i++ {
		h.registerDocument(t, "Doc "+string(rune('A'+i)), contractV1)
	}

	rec, env := h.do(t, "GET", "/api/v1/documents?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(5), env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.PageSize)

	var docs []document.Document
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	assert.Len(t, docs, 2)
}

func TestAPI_DocumentCreate_RejectsUnknownFields(t *testing.T) {
	h := newAPIHarness(t)

	rec, env := h.do(t, "POST", "/api/v1/documents", map[string]string{
		"name": "x", "bogus": "y",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeBadRequest), env.Error.Code)
}

func TestAPI_DocumentCreate_BlankNameRejected(t *testing.T) {
	h := newAPIHarness(t)

	rec, _ := h.do(t, "POST", "/api/v1/documents", map[string]string{
		"name": "   ", "type": "contract_of_sale", "text": contractV1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_DocumentContentURL_WithoutStorage(t *testing.T) {
	h := newAPIHarness(t)
	id := h.registerDocument(t, "No Storage", contractV1)

	rec, env := h.do(t, "GET", "/api/v1/documents/"+string(id)+"/content-url", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(errors.ErrCodeServiceUnavailable), env.Error.Code)
}

// ── comparisons ─────────────────────────────────────────────────────────────

func TestAPI_CompareAndFetch(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "GET", "/api/v1/comparisons/"+string(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cmp domaincmp.DocumentComparison
	require.NoError(t, json.Unmarshal(env.Data, &cmp))
	assert.NotEmpty(t, cmp.Clauses1)
	assert.NotEmpty(t, cmp.Clauses2)
	assert.Greater(t, cmp.Metrics.OverallSimilarity, 0.0)
	assert.NotZero(t, cmp.Metrics.TotalDifferences)
}

func TestAPI_CompareMissingDocument(t *testing.T) {
	h := newAPIHarness(t)
	doc1 := h.registerDocument(t, "Only One", contractV1)

	rec, env := h.do(t, "POST", "/api/v1/comparisons", map[string]interface{}{
		"document1_id": string(doc1),
		"document2_id": string(common.NewID()),
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeDocumentNotFound), env.Error.Code)
}

func TestAPI_CompareAsyncWithoutPublisher(t *testing.T) {
	h := newAPIHarness(t)
	doc1 := h.registerDocument(t, "A", contractV1)
	doc2 := h.registerDocument(t, "B", contractV2)

	rec, env := h.do(t, "POST", "/api/v1/comparisons", map[string]interface{}{
		"document1_id": string(doc1),
		"document2_id": string(doc2),
		"async":        true,
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(errors.ErrCodeServiceUnavailable), env.Error.Code)
}

func TestAPI_ComparisonList_RequiresDocumentID(t *testing.T) {
	h := newAPIHarness(t)

	rec, env := h.do(t, "GET", "/api/v1/comparisons", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeBadRequest), env.Error.Code)
}

func TestAPI_ComparisonMetricsAndSections(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "GET", "/api/v1/comparisons/"+string(id)+"/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics domaincmp.ComparisonMetrics
	require.NoError(t, json.Unmarshal(env.Data, &metrics))
	assert.GreaterOrEqual(t, metrics.OverallSimilarity, 0.0)
	assert.LessOrEqual(t, metrics.OverallSimilarity, 1.0)

	rec, env = h.do(t, "GET", "/api/v1/comparisons/"+string(id)+"/sections", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sections []string
	require.NoError(t, json.Unmarshal(env.Data, &sections))
	assert.NotEmpty(t, sections)
}

func TestAPI_ComparisonView_Filtered(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "GET", "/api/v1/comparisons/"+string(id)+"/view?show_similarities=false&severities=high", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view appcmp.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Similarities)
	for _, d := range view.Differences {
		assert.Equal(t, domaincmp.SeverityHigh, d.Severity)
	}
}

func TestAPI_ComparisonView_BadThreshold(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "GET", "/api/v1/comparisons/"+string(id)+"/view?threshold=1.5", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidThreshold), env.Error.Code)
}

func TestAPI_ComparisonDelete(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, _ := h.do(t, "DELETE", "/api/v1/comparisons/"+string(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := h.do(t, "GET", "/api/v1/comparisons/"+string(id), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeComparisonNotFound), env.Error.Code)
}

// ── export ──────────────────────────────────────────────────────────────────

func TestAPI_ExportJSON(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "POST", "/api/v1/comparisons/"+string(id)+"/export", map[string]string{
		"format": "json",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result export.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "exports/"+string(id)+".json", result.Key)
	assert.Equal(t, "application/json", result.ContentType)
	assert.Greater(t, result.Size, int64(0))
}

func TestAPI_ExportUnknownFormatRejected(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createComparison(t)

	rec, env := h.do(t, "POST", "/api/v1/comparisons/"+string(id)+"/export", map[string]string{
		"format": "xlsx",
	})
	require.NotEqual(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(errors.ErrCodeExportFormatUnsupported), env.Error.Code)
}

// ── jurisdictions ───────────────────────────────────────────────────────────

func TestAPI_Jurisdictions(t *testing.T) {
	h := newAPIHarness(t)

	rec, env := h.do(t, "GET", "/api/v1/jurisdictions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var states []string
	require.NoError(t, json.Unmarshal(env.Data, &states))
	assert.Contains(t, states, "VIC")
	assert.Contains(t, states, "NSW")

	rec, env = h.do(t, "GET", "/api/v1/jurisdictions/vic", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rules jurisdiction.Rules
	require.NoError(t, json.Unmarshal(env.Data, &rules))
	assert.Equal(t, "VIC", rules.State)
	assert.Equal(t, 3, rules.CoolingOffDays)

	rec, env = h.do(t, "GET", "/api/v1/jurisdictions/zz", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeJurisdictionUnknown), env.Error.Code)
}

// ── health ──────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	h := newAPIHarness(t,
		handlers.Checker{Name: "postgres", Check: func(context.Context) error { return nil }},
		handlers.Checker{Name: "redis", Check: func(context.Context) error { return stderrors.New("down") }},
	)

	rec, _ := h.do(t, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := h.do(t, "GET", "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "up", resp.Components["postgres"])
	assert.Equal(t, "down", resp.Components["redis"])
}
