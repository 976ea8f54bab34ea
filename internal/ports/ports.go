package ports

import (
	"context"
	"errors"
	"time"

	"NewsHarvester/internal/domain"
)

// ErrNotFound is returned by repository lookups that match nothing.
var ErrNotFound = errors.New("not found")

// FeedSource retrieves and normalizes one feed into FeedItems.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error)
}

// ContentExtractor resolves a feed item to its content, degrading through the
// fallback chain. Exhaustion is signaled via Success == false, never an error.
type ContentExtractor interface {
	Extract(ctx context.Context, item domain.FeedItem) domain.ExtractedContent
}

// Rewriter transforms raw extracted text into a structured article via an
// external text-transformation service.
type Rewriter interface {
	Rewrite(ctx context.Context, req domain.RewriteRequest) (domain.StructuredArticle, error)
}

// ArticleRepository is the storage collaborator. It owns serialization of
// conflicting writes; the pipeline only promises per-item duplicate checks.
type ArticleRepository interface {
	Create(ctx context.Context, article domain.CandidateArticle) (string, error)
	FindBySourceURL(ctx context.Context, sourceURL string) ([]domain.ArticleRef, error)
	Delete(ctx context.Context, id string) error
	FindCategoryBySlug(ctx context.Context, slug string) (domain.CategoryRef, error)
	FindAuthorByName(ctx context.Context, name string) (domain.AuthorRef, error)
}

// JobDriver ticks registered jobs on fixed intervals.
type JobDriver interface {
	Schedule(name string, interval time.Duration, job func(time.Time)) error
	NextRun(name string) time.Time
	Start()
	Stop(ctx context.Context) error
}

// Notifier publishes run summaries to an out-of-band channel.
type Notifier interface {
	PublishRunSummary(ctx context.Context, summary string) error
}
