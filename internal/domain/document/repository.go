package document

import (
	"context"
	"io"

	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Repository is the persistence port for document metadata and extracted
// text, implemented over postgres.
type Repository interface {
	Save(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id common.ID) (*Document, error)
	List(ctx context.Context, p common.Pagination) ([]*Document, int64, error)
	Delete(ctx context.Context, id common.ID) error
}

// ContentStore is the object-storage port for raw document bytes (the
// original uploaded files), implemented over MinIO.  Keys are opaque to the
// domain; Document.ContentKey records them.
type ContentStore interface {
	// Put stores content under a key derived from the document ID and
	// returns that key.
	Put(ctx context.Context, id common.ID, contentType string, r io.Reader, size int64) (key string, err error)

	// Get opens the stored content for reading.  The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// PresignedURL returns a time-limited download URL for the content.
	PresignedURL(ctx context.Context, key string) (string, error)

	// Remove deletes the stored content.
	Remove(ctx context.Context, key string) error
}
