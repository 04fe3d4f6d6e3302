package comparison

import (
	"context"

	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Repository is the persistence port for comparison aggregates.  Implemented
// by the postgres repository in internal/infrastructure/database/postgres.
type Repository interface {
	// Save persists the full aggregate.  Saving an existing ID is an error;
	// aggregates are immutable.
	Save(ctx context.Context, cmp *DocumentComparison) error

	// GetByID loads a full aggregate, returning a ComparisonNotFound error
	// when no such comparison exists.
	GetByID(ctx context.Context, id common.ID) (*DocumentComparison, error)

	// ListByDocument pages through comparisons that involve the given
	// document on either side, newest first.  Returns the page and the total
	// count.
	ListByDocument(ctx context.Context, docID common.ID, p common.Pagination) ([]*DocumentComparison, int64, error)

	// Delete removes a comparison and its dependent rows.
	Delete(ctx context.Context, id common.ID) error
}

// Cache is the read-through cache port for computed comparisons, implemented
// over redis.  A miss returns (nil, nil).
type Cache interface {
	Get(ctx context.Context, id common.ID) (*DocumentComparison, error)
	Set(ctx context.Context, cmp *DocumentComparison) error
	Invalidate(ctx context.Context, id common.ID) error
}
