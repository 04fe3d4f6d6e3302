package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DocumentsClient accesses the document endpoints.
type DocumentsClient struct {
	client *Client
}

// Document is the SDK view of a registered document.
type Document struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Type         string                 `json:"type"`
	Jurisdiction string                 `json:"jurisdiction"`
	Text         string                 `json:"text,omitempty"`
	PageCount    int                    `json:"page_count"`
	ContentKey   string                 `json:"content_key,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// RegisterDocumentRequest registers a document from extracted text.
type RegisterDocumentRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Jurisdiction string `json:"jurisdiction"`
	Text         string `json:"text"`
}

// Register creates a document.
func (dc *DocumentsClient) Register(ctx context.Context, req RegisterDocumentRequest) (*Document, error) {
	var doc Document
	if _, err := dc.client.do(ctx, http.MethodPost, "/api/v1/documents", req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Get fetches one document.
func (dc *DocumentsClient) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if _, err := dc.client.do(ctx, http.MethodGet, "/api/v1/documents/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List pages through documents.
func (dc *DocumentsClient) List(ctx context.Context, page, pageSize int) ([]Document, *Pagination, error) {
	var docs []Document
	path := fmt.Sprintf("/api/v1/documents?page=%d&page_size=%d", page, pageSize)
	p, err := dc.client.do(ctx, http.MethodGet, path, nil, &docs)
	if err != nil {
		return nil, nil, err
	}
	return docs, p, nil
}

// Delete removes a document.
func (dc *DocumentsClient) Delete(ctx context.Context, id string) error {
	_, err := dc.client.do(ctx, http.MethodDelete, "/api/v1/documents/"+id, nil, nil)
	return err
}

// ContentURL returns a presigned download URL for the original bytes.
func (dc *DocumentsClient) ContentURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if _, err := dc.client.do(ctx, http.MethodGet, "/api/v1/documents/"+id+"/content-url", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
