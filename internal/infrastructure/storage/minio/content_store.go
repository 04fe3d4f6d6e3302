package minio

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ContentStore implements document.ContentStore over the documents bucket.
// Keys are "documents/<id>".
type ContentStore struct {
	client *Client
	log    logging.Logger
}

func NewContentStore(client *Client, log logging.Logger) *ContentStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ContentStore{client: client, log: log.Named("content-store")}
}

// Put stores the original document bytes and returns the storage key.
func (s *ContentStore) Put(ctx context.Context, id common.ID, contentType string, r io.Reader, size int64) (string, error) {
	key := "documents/" + string(id)
	_, err := s.client.api.PutObject(ctx, s.client.documents, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDocumentContentError, "failed to upload document content")
	}
	return key, nil
}

// Get opens the stored content.  The caller closes the reader.
func (s *ContentStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.api.GetObject(ctx, s.client.documents, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentContentError, "failed to open document content")
	}
	// GetObject is lazy; Stat forces the first request so missing objects
	// surface here instead of on first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.New(errors.ErrCodeDocumentContentError, "document content not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDocumentContentError, "failed to read document content")
	}
	return obj, nil
}

// PresignedURL returns a time-limited download URL for the content.
func (s *ContentStore) PresignedURL(ctx context.Context, key string) (string, error) {
	return s.client.presignedGet(ctx, s.client.documents, key)
}

// Remove deletes the stored content.
func (s *ContentStore) Remove(ctx context.Context, key string) error {
	err := s.client.api.RemoveObject(ctx, s.client.documents, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentContentError, "failed to remove document content")
	}
	return nil
}
