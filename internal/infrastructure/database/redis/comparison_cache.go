package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ComparisonCache implements comparison.Cache over the shared Client.
// Aggregates are stored as JSON under "comparison:<id>".
type ComparisonCache struct {
	client *Client
	log    logging.Logger
}

func NewComparisonCache(client *Client, log logging.Logger) *ComparisonCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ComparisonCache{client: client, log: log.Named("comparison-cache")}
}

func comparisonKey(id common.ID) string { return "comparison:" + string(id) }

// Get returns the cached aggregate, or (nil, nil) on a miss.  A corrupt
// entry is evicted and treated as a miss.
func (c *ComparisonCache) Get(ctx context.Context, id common.ID) (*comparison.DocumentComparison, error) {
	data, err := c.client.Get(ctx, comparisonKey(id))
	if stderrors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cmp comparison.DocumentComparison
	if err := json.Unmarshal(data, &cmp); err != nil {
		c.log.Warn("evicting corrupt cache entry",
			logging.String("comparison_id", string(id)), logging.Err(err))
		_ = c.client.Delete(ctx, comparisonKey(id))
		return nil, nil
	}
	return &cmp, nil
}

// Set stores the aggregate with the client's default TTL.
func (c *ComparisonCache) Set(ctx context.Context, cmp *comparison.DocumentComparison) error {
	data, err := json.Marshal(cmp)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode comparison for cache")
	}
	return c.client.Set(ctx, comparisonKey(cmp.ID), data)
}

// Invalidate drops the cached aggregate.
func (c *ComparisonCache) Invalidate(ctx context.Context, id common.ID) error {
	return c.client.Delete(ctx, comparisonKey(id))
}
