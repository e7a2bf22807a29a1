package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// ContentRepo implements ports.ContentRepository.
type ContentRepo struct {
	db *DB
}

func NewContentRepo(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

const contentColumns = `id, kind, slug, title, body_markdown, body_html, status, published_at, created_at, updated_at`

func (r *ContentRepo) Create(ctx context.Context, d *domain.ContentDocument) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO content_documents (id, kind, slug, title, body_markdown, body_html, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, d.ID, string(d.Kind), d.Slug, d.Title, d.BodyMarkdown, d.BodyHTML,
		string(d.Status), d.PublishedAt, d.CreatedAt, d.UpdatedAt)
	return mapErr(err)
}

func (r *ContentRepo) Update(ctx context.Context, d *domain.ContentDocument) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE content_documents
		SET kind = $2, slug = $3, title = $4, body_markdown = $5, body_html = $6, updated_at = $7
		WHERE id = $1
	`, d.ID, string(d.Kind), d.Slug, d.Title, d.BodyMarkdown, d.BodyHTML, d.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContentRepo) GetByID(ctx context.Context, id string) (*domain.ContentDocument, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+contentColumns+` FROM content_documents WHERE id = $1`, id)
	return scanContent(row)
}

func (r *ContentRepo) GetBySlug(ctx context.Context, slug string) (*domain.ContentDocument, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+contentColumns+` FROM content_documents WHERE slug = $1`, slug)
	return scanContent(row)
}

// List returns documents newest first. An empty kind lists every kind.
func (r *ContentRepo) List(ctx context.Context, kind domain.ContentKind) ([]domain.ContentDocument, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+contentColumns+`
		FROM content_documents
		WHERE $1 = '' OR kind = $1
		ORDER BY created_at DESC, id
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.ContentDocument
	for rows.Next() {
		d, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// SetStatus moves a document between draft and published. published_at is
// set on publish and cleared on unpublish.
func (r *ContentRepo) SetStatus(ctx context.Context, id string, status domain.ContentStatus) (*domain.ContentDocument, error) {
	row := r.db.Pool.QueryRow(ctx, `
		UPDATE content_documents
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE NULL END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+contentColumns, id, string(status))
	return scanContent(row)
}

func scanContent(row pgx.Row) (*domain.ContentDocument, error) {
	var d domain.ContentDocument
	var kind, status string
	err := row.Scan(&d.ID, &kind, &d.Slug, &d.Title, &d.BodyMarkdown, &d.BodyHTML,
		&status, &d.PublishedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	d.Kind = domain.ContentKind(kind)
	d.Status = domain.ContentStatus(status)
	return &d, nil
}
