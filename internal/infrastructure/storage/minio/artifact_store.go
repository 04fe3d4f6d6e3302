package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// ArtifactStore implements export.ArtifactStore over the exports bucket.
type ArtifactStore struct {
	client *Client
	log    logging.Logger
}

func NewArtifactStore(client *Client, log logging.Logger) *ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ArtifactStore{client: client, log: log.Named("artifact-store")}
}

// PutArtifact stores a finished export artifact under the given key.
func (s *ArtifactStore) PutArtifact(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.api.PutObject(ctx, s.client.exports, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to upload export artifact")
	}
	return nil
}

// PresignedURL returns a time-limited download URL for an artifact.
func (s *ArtifactStore) PresignedURL(ctx context.Context, key string) (string, error) {
	return s.client.presignedGet(ctx, s.client.exports, key)
}
