package comparison

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/engine/pipeline"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Publisher is the event port for comparison lifecycle announcements,
// implemented by the kafka producer.  A nil Publisher disables events.
type Publisher interface {
	ComparisonRequested(ctx context.Context, doc1, doc2 common.ID, cfg domain.ComparisonConfig) error
	ComparisonCompleted(ctx context.Context, cmp *domain.DocumentComparison) error
}

// Service orchestrates comparison computation, persistence, caching, and
// event publication.  Safe for concurrent use.
type Service struct {
	docs  document.Repository
	repo  domain.Repository
	cache domain.Cache
	pipe  *pipeline.Pipeline
	pub   Publisher
	log   logging.Logger

	// loads coalesces concurrent GetByID calls per comparison id so that at
	// most one store read is in flight for a given id.
	loads singleflight.Group
}

func NewService(docs document.Repository, repo domain.Repository, cache domain.Cache,
	pipe *pipeline.Pipeline, pub Publisher, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		docs:  docs,
		repo:  repo,
		cache: cache,
		pipe:  pipe,
		pub:   pub,
		log:   log.Named("comparison-service"),
	}
}

// Compare loads both documents, runs the engine pipeline, persists the new
// aggregate, primes the cache, and announces completion.
func (s *Service) Compare(ctx context.Context, doc1ID, doc2ID common.ID, cfg domain.ComparisonConfig) (*domain.DocumentComparison, error) {
	d1, err := s.docs.GetByID(ctx, doc1ID)
	if err != nil {
		return nil, err
	}
	d2, err := s.docs.GetByID(ctx, doc2ID)
	if err != nil {
		return nil, err
	}

	cmp, err := s.pipe.Compare(ctx, d1, d2, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cmp); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cmp); err != nil {
			s.log.Warn("failed to cache comparison",
				logging.String("comparison_id", string(cmp.ID)), logging.Err(err))
		}
	}
	if s.pub != nil {
		if err := s.pub.ComparisonCompleted(ctx, cmp); err != nil {
			s.log.Warn("failed to publish completion event",
				logging.String("comparison_id", string(cmp.ID)), logging.Err(err))
		}
	}
	return cmp, nil
}

// Enqueue announces a comparison request for asynchronous processing by the
// worker.  Requires a publisher.
func (s *Service) Enqueue(ctx context.Context, doc1ID, doc2ID common.ID, cfg domain.ComparisonConfig) error {
	if s.pub == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "event publishing is not configured")
	}
	return s.pub.ComparisonRequested(ctx, doc1ID, doc2ID, cfg)
}

// GetByID fetches a comparison, cache first, coalescing concurrent loads of
// the same id.
func (s *Service) GetByID(ctx context.Context, id common.ID) (*domain.DocumentComparison, error) {
	v, err, _ := s.loads.Do(string(id), func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, id)
			if err != nil {
				s.log.Warn("comparison cache read failed",
					logging.String("comparison_id", string(id)), logging.Err(err))
			} else if cached != nil {
				return cached, nil
			}
		}

		cmp, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, cmp); err != nil {
				s.log.Warn("failed to cache comparison",
					logging.String("comparison_id", string(id)), logging.Err(err))
			}
		}
		return cmp, nil
	})
	if err != nil {
		return nil, err
	}
	cmp, ok := v.(*domain.DocumentComparison)
	if !ok {
		return nil, errors.Internal(fmt.Sprintf("unexpected load result %T", v))
	}
	return cmp, nil
}

// ListByDocument pages through comparisons involving the document.
func (s *Service) ListByDocument(ctx context.Context, docID common.ID, p common.Pagination) ([]*domain.DocumentComparison, int64, error) {
	p.Normalize()
	return s.repo.ListByDocument(ctx, docID, p)
}

// Delete removes a comparison from the store and the cache.
func (s *Service) Delete(ctx context.Context, id common.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("failed to invalidate cached comparison",
				logging.String("comparison_id", string(id)), logging.Err(err))
		}
	}
	return nil
}
