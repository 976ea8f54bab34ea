// Package storage is the Postgres-backed repository collaborator. It owns
// serialization of conflicting writes; the unique index on source_url is the
// backstop behind the pipeline's duplicate checks.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
)

// PostgresRepository persists imported articles and resolves categories and
// authors.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the candidate and returns the generated article ID.
func (r *PostgresRepository) Create(ctx context.Context, article domain.CandidateArticle) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("repository has no database handle")
	}

	id := uuid.NewString()

	var (
		excerpt, slug, seoTitle, seoDescription, location string
		tags                                              []string
	)
	if article.Rewritten != nil {
		excerpt = article.Rewritten.Excerpt
		slug = article.Rewritten.Slug
		seoTitle = article.Rewritten.SEOTitle
		seoDescription = article.Rewritten.SEODescription
		location = article.Rewritten.Location
		tags = article.Rewritten.Tags
	}

	heroImage := ""
	if article.BestImage != nil {
		heroImage = article.BestImage.URL
	}

	query := `INSERT INTO articles
              (id, source_url, title, excerpt, body, hero_image, quality, strategy,
               category_id, author_id, slug, seo_title, seo_description, tags, location, published_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		id,
		article.SourceURL,
		article.EffectiveTitle(),
		excerpt,
		article.EffectiveBody(),
		heroImage,
		string(article.Quality),
		string(article.Content.Strategy),
		article.CategoryID,
		article.AuthorID,
		slug,
		seoTitle,
		seoDescription,
		pq.Array(tags),
		location,
		article.Item.PublishedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

// FindBySourceURL returns stored articles matching the canonical source URL.
func (r *PostgresRepository) FindBySourceURL(ctx context.Context, sourceURL string) ([]domain.ArticleRef, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository has no database handle")
	}

	query := `SELECT id, source_url FROM articles WHERE source_url = $1`

	rows, err := r.db.QueryContext(ctx, query, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("query by source url: %w", err)
	}
	defer rows.Close()

	var refs []domain.ArticleRef
	for rows.Next() {
		var ref domain.ArticleRef
		if err := rows.Scan(&ref.ID, &ref.SourceURL); err != nil {
			return nil, fmt.Errorf("scan article ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return refs, nil
}

// Delete removes one article by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return fmt.Errorf("repository has no database handle")
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// FindCategoryBySlug resolves the stored category; missing categories are
// fatal to the run that needs them.
func (r *PostgresRepository) FindCategoryBySlug(ctx context.Context, slug string) (domain.CategoryRef, error) {
	if r.db == nil {
		return domain.CategoryRef{}, fmt.Errorf("repository has no database handle")
	}

	var ref domain.CategoryRef
	query := `SELECT id, slug, name FROM categories WHERE slug = $1`
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&ref.ID, &ref.Slug, &ref.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CategoryRef{}, fmt.Errorf("category %s: %w", slug, ports.ErrNotFound)
	}
	if err != nil {
		return domain.CategoryRef{}, fmt.Errorf("query category: %w", err)
	}

	return ref, nil
}

// FindAuthorByName resolves the author every import is attributed to.
func (r *PostgresRepository) FindAuthorByName(ctx context.Context, name string) (domain.AuthorRef, error) {
	if r.db == nil {
		return domain.AuthorRef{}, fmt.Errorf("repository has no database handle")
	}

	var ref domain.AuthorRef
	query := `SELECT id, name FROM authors WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&ref.ID, &ref.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AuthorRef{}, fmt.Errorf("author %s: %w", name, ports.ErrNotFound)
	}
	if err != nil {
		return domain.AuthorRef{}, fmt.Errorf("query author: %w", err)
	}

	return ref, nil
}
