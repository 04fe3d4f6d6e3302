package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appdoc "github.com/verdictio/lexcompare/internal/application/document"
	"github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// DocumentHandler exposes document registration, retrieval, and content
// endpoints.
type DocumentHandler struct {
	svc *appdoc.Service
	log logging.Logger
}

func NewDocumentHandler(svc *appdoc.Service, log logging.Logger) *DocumentHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DocumentHandler{svc: svc, log: log.Named("document-handler")}
}

type registerDocumentRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Jurisdiction string `json:"jurisdiction"`
	Text         string `json:"text"`
}

// Create registers a document from extracted text.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := h.svc.Register(r.Context(), req.Name,
		document.DocumentType(req.Type), req.Jurisdiction, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, doc)
}

// Get fetches one document.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, doc)
}

// List pages through documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)
	docs, total, err := h.svc.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p.Total = total
	writePage(w, r, docs, p)
}

// Delete removes a document and its stored content.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "documentID"))
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

// UploadContent stores the original uploaded bytes for a document.
func (h *DocumentHandler) UploadContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.svc.AttachContent(r.Context(), id, contentType, r.Body, r.ContentLength)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, doc)
}

// ContentURL returns a presigned download URL for the original bytes.
func (h *DocumentHandler) ContentURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	url, err := h.svc.ContentURL(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]string{"url": url})
}
