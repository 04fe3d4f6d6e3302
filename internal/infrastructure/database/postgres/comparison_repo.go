package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ComparisonRepository is the PostgreSQL implementation of
// comparison.Repository.  The full aggregate is stored as a JSONB payload;
// the document ids, overall score, and difference count are extracted into
// columns for listing and filtering without deserializing every row.
type ComparisonRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

func NewComparisonRepository(pool *pgxpool.Pool, log logging.Logger) *ComparisonRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ComparisonRepository{pool: pool, log: log.Named("comparison-repo")}
}

// Save inserts the aggregate.  Comparisons are immutable, so a duplicate id
// is a conflict rather than an update.
func (r *ComparisonRepository) Save(ctx context.Context, cmp *comparison.DocumentComparison) error {
	payload, err := json.Marshal(cmp)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode comparison")
	}

	const q = `
		INSERT INTO comparisons (id, document1_id, document2_id, overall_similarity, total_differences, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.pool.Exec(ctx, q,
		string(cmp.ID), string(cmp.Document1.ID), string(cmp.Document2.ID),
		cmp.Metrics.OverallSimilarity, cmp.Metrics.TotalDifferences,
		payload, cmp.CreatedAt.Time())
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errors.Conflict("comparison " + string(cmp.ID) + " already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save comparison")
	}
	return nil
}

// GetByID loads a full aggregate from its JSONB payload.
func (r *ComparisonRepository) GetByID(ctx context.Context, id common.ID) (*comparison.DocumentComparison, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM comparisons WHERE id = $1`, string(id)).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeComparisonNotFound, "comparison "+string(id)+" not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load comparison")
	}
	return decodeComparison(payload)
}

// ListByDocument pages through comparisons involving the document on either
// side, newest first.
func (r *ComparisonRepository) ListByDocument(ctx context.Context, docID common.ID, p common.Pagination) ([]*comparison.DocumentComparison, int64, error) {
	p.Normalize()

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM comparisons WHERE document1_id = $1 OR document2_id = $1`,
		string(docID)).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count comparisons")
	}

	const q = `
		SELECT payload FROM comparisons
		WHERE document1_id = $1 OR document2_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, string(docID), p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list comparisons")
	}
	defer rows.Close()

	var out []*comparison.DocumentComparison
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan comparison row")
		}
		cmp, err := decodeComparison(payload)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cmp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "comparison row iteration failed")
	}
	return out, total, nil
}

// Delete removes a comparison row.
func (r *ComparisonRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, string(id))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete comparison")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeComparisonNotFound, "comparison "+string(id)+" not found")
	}
	return nil
}

func decodeComparison(payload []byte) (*comparison.DocumentComparison, error) {
	var cmp comparison.DocumentComparison
	if err := json.Unmarshal(payload, &cmp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode comparison payload")
	}
	return &cmp, nil
}
