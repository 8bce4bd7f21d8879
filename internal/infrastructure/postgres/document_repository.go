package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/document"
)

const documentColumns = `id, document_id, document_number, document_type_id, submitter_id, title, data, status, submitted_at, completed_at, created_at, updated_at, deleted_at`

// DocumentRepository implements document.Repository.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents
		(document_id, document_number, document_type_id, submitter_id, title, data, status, submitted_at, completed_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, d.DocumentID, d.DocumentNumber, d.DocumentTypeID, d.SubmitterID, d.Title, d.Data, d.Status, d.SubmittedAt, d.CompletedAt, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, documentID uuid.UUID) (*document.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE document_id=$1 AND deleted_at IS NULL`, documentID)
	return scanDocument(row)
}

func (r *DocumentRepository) List(ctx context.Context, filter document.Filter, limit, offset int) ([]*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE deleted_at IS NULL`
	args := []interface{}{}
	idx := 1
	if filter.SubmitterID != nil {
		query += " AND submitter_id=$" + itoa(idx)
		args = append(args, *filter.SubmitterID)
		idx++
	}
	if filter.DocumentTypeID != nil {
		query += " AND document_type_id=$" + itoa(idx)
		args = append(args, *filter.DocumentTypeID)
		idx++
	}
	if filter.Status != nil {
		query += " AND status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.Search != "" {
		query += " AND (title ILIKE $" + itoa(idx) + " OR document_number ILIKE $" + itoa(idx) + ")"
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.SubmittedFrom != nil {
		query += " AND submitted_at >= $" + itoa(idx)
		args = append(args, *filter.SubmittedFrom)
		idx++
	}
	if filter.SubmittedTo != nil {
		query += " AND submitted_at <= $" + itoa(idx)
		args = append(args, *filter.SubmittedTo)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []*document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) Update(ctx context.Context, d *document.Document) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET title=$1, data=$2, status=$3, submitted_at=$4, completed_at=$5, updated_at=$6
		WHERE document_id=$7
	`, d.Title, d.Data, d.Status, d.SubmittedAt, d.CompletedAt, d.UpdatedAt, d.DocumentID)
	return err
}

func (r *DocumentRepository) SoftDelete(ctx context.Context, documentID uuid.UUID, now time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE documents SET deleted_at=$1, updated_at=$1 WHERE document_id=$2`, now, documentID)
	return err
}

// SumPayloadField sums a numeric JSON payload field across the submitter's
// documents of the type in the given statuses within the calendar year.
func (r *DocumentRepository) SumPayloadField(ctx context.Context, submitterID, documentTypeID uuid.UUID, statuses []document.Status, year int, field string) (float64, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM((data->>$1)::numeric), 0)
		FROM documents
		WHERE submitter_id=$2 AND document_type_id=$3 AND status = ANY($4)
		  AND EXTRACT(YEAR FROM created_at) = $5
		  AND data ? $1 AND deleted_at IS NULL
	`, field, submitterID, documentTypeID, statusStrings(statuses), year)
	var sum float64
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *DocumentRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE document_number LIKE $1`, prefix+"%")
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DocumentRepository) CountByStatus(ctx context.Context, submitterID uuid.UUID) (map[document.Status]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM documents
		WHERE submitter_id=$1 AND deleted_at IS NULL
		GROUP BY status
	`, submitterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[document.Status]int64{}
	for rows.Next() {
		var status document.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	if err := row.Scan(&d.ID, &d.DocumentID, &d.DocumentNumber, &d.DocumentTypeID, &d.SubmitterID, &d.Title, &d.Data, &d.Status, &d.SubmittedAt, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func statusStrings(statuses []document.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// DocumentTypeRepository implements document.TypeRepository.
type DocumentTypeRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentTypeRepository(pool *pgxpool.Pool) *DocumentTypeRepository {
	return &DocumentTypeRepository{pool: pool}
}

const documentTypeColumns = `id, document_type_id, name, slug, description, form_schema, requires_attachment, active, created_at, updated_at`

func (r *DocumentTypeRepository) GetByID(ctx context.Context, documentTypeID uuid.UUID) (*document.Type, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentTypeColumns+` FROM document_types WHERE document_type_id=$1`, documentTypeID)
	return scanDocumentType(row)
}

func (r *DocumentTypeRepository) GetBySlug(ctx context.Context, slug string) (*document.Type, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentTypeColumns+` FROM document_types WHERE slug=$1`, slug)
	return scanDocumentType(row)
}

func (r *DocumentTypeRepository) ListActive(ctx context.Context) ([]*document.Type, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentTypeColumns+` FROM document_types WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []*document.Type
	for rows.Next() {
		t, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanDocumentType(row pgx.Row) (*document.Type, error) {
	var t document.Type
	if err := row.Scan(&t.ID, &t.DocumentTypeID, &t.Name, &t.Slug, &t.Description, &t.FormSchema, &t.RequiresAttachment, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
