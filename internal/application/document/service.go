// Package document (application layer) handles registration and retrieval of
// source documents: metadata and extracted text in postgres, raw content
// bytes in object storage.
package document

import (
	"context"
	"io"

	domain "github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Service orchestrates document persistence and content storage.
type Service struct {
	repo    domain.Repository
	content domain.ContentStore
	log     logging.Logger
}

func NewService(repo domain.Repository, content domain.ContentStore, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{repo: repo, content: content, log: log.Named("document-service")}
}

// Register validates and stores a new document from its extracted text.
func (s *Service) Register(ctx context.Context, name string, docType domain.DocumentType, jurisdiction, text string) (*domain.Document, error) {
	doc, err := domain.New(name, docType, jurisdiction, text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.log.Info("document registered",
		logging.String("document_id", string(doc.ID)),
		logging.String("name", doc.Name),
		logging.Int("pages", doc.PageCount))
	return doc, nil
}

// AttachContent stores the original uploaded bytes for a document and
// records the resulting storage key.
func (s *Service) AttachContent(ctx context.Context, id common.ID, contentType string, r io.Reader, size int64) (*domain.Document, error) {
	if s.content == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "content storage is not configured")
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := s.content.Put(ctx, id, contentType, r, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentContentError, "failed to store document content")
	}
	doc.ContentKey = key
	doc.UpdatedAt = common.Now()
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get fetches a document by id.
func (s *Service) Get(ctx context.Context, id common.ID) (*domain.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// ContentURL returns a presigned download URL for the original bytes.
func (s *Service) ContentURL(ctx context.Context, id common.ID) (string, error) {
	if s.content == nil {
		return "", errors.New(errors.ErrCodeServiceUnavailable, "content storage is not configured")
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.ContentKey == "" {
		return "", errors.New(errors.ErrCodeDocumentContentError, "document has no stored content")
	}
	return s.content.PresignedURL(ctx, doc.ContentKey)
}

// List pages through registered documents.
func (s *Service) List(ctx context.Context, p common.Pagination) ([]*domain.Document, int64, error) {
	p.Normalize()
	return s.repo.List(ctx, p)
}

// Delete removes a document and its stored content.
func (s *Service) Delete(ctx context.Context, id common.ID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.content != nil && doc.ContentKey != "" {
		if err := s.content.Remove(ctx, doc.ContentKey); err != nil {
			s.log.Warn("failed to remove stored content",
				logging.String("document_id", string(id)), logging.Err(err))
		}
	}
	return nil
}
