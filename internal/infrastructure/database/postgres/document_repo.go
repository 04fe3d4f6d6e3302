package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// DocumentRepository is the PostgreSQL implementation of
// document.Repository.  All queries are parameterised.
type DocumentRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log logging.Logger) *DocumentRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DocumentRepository{pool: pool, log: log.Named("document-repo")}
}

const documentColumns = `id, name, doc_type, jurisdiction, text_content, page_count, content_key, metadata, created_at, updated_at`

// Save upserts a document row.
func (r *DocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode document metadata")
	}

	const q = `
		INSERT INTO documents (id, name, doc_type, jurisdiction, text_content, page_count, content_key, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			doc_type = EXCLUDED.doc_type,
			jurisdiction = EXCLUDED.jurisdiction,
			text_content = EXCLUDED.text_content,
			page_count = EXCLUDED.page_count,
			content_key = EXCLUDED.content_key,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, q,
		string(doc.ID), doc.Name, string(doc.Type), doc.Jurisdiction,
		doc.Text, doc.PageCount, doc.ContentKey, meta,
		doc.CreatedAt.Time(), doc.UpdatedAt.Time())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save document")
	}
	return nil
}

// GetByID loads a document by id.
func (r *DocumentRepository) GetByID(ctx context.Context, id common.ID) (*document.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.pool.QueryRow(ctx, q, string(id)))
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document "+string(id)+" not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load document")
	}
	return doc, nil
}

// List pages through documents, newest first.
func (r *DocumentRepository) List(ctx context.Context, p common.Pagination) ([]*document.Document, int64, error) {
	p.Normalize()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count documents")
	}

	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list documents")
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document row")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "document row iteration failed")
	}
	return docs, total, nil
}

// Delete removes a document row.
func (r *DocumentRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, string(id))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete document")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document "+string(id)+" not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var (
		doc       document.Document
		id        string
		docType   string
		meta      []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &doc.Name, &docType, &doc.Jurisdiction,
		&doc.Text, &doc.PageCount, &doc.ContentKey, &meta,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	doc.ID = common.ID(id)
	doc.Type = document.DocumentType(docType)
	doc.CreatedAt = common.Timestamp(createdAt)
	doc.UpdatedAt = common.Timestamp(updatedAt)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}
