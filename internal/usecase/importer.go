package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/filter"
	"NewsHarvester/internal/images"
	"NewsHarvester/internal/ports"
	"NewsHarvester/internal/quality"
)

// CategoryImport describes one category run.
type CategoryImport struct {
	Name        string
	Slug        string
	Feeds       []string
	MaxArticles int
}

// ImporterDeps wires all driven adapters into the import orchestrator.
type ImporterDeps struct {
	Source     ports.FeedSource
	Extractor  ports.ContentExtractor
	Rewriter   ports.Rewriter // nil disables rewriting
	Repository ports.ArticleRepository
	AuthorName string
	Workers    int
	Logger     *slog.Logger
}

// Importer drives the per-category pipeline: fetch, filter, dedupe, extract,
// optimize, assess, rewrite, confirm, persist.
type Importer struct {
	source     ports.FeedSource
	extractor  ports.ContentExtractor
	rewriter   ports.Rewriter
	repository ports.ArticleRepository
	authorName string
	workers    int
	logger     *slog.Logger
}

// NewImporter constructs the orchestration component.
func NewImporter(deps ImporterDeps) *Importer {
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > 4 {
		workers = 4
	}
	return &Importer{
		source:     deps.Source,
		extractor:  deps.Extractor,
		rewriter:   deps.Rewriter,
		repository: deps.Repository,
		authorName: deps.AuthorName,
		workers:    workers,
		logger:     deps.Logger,
	}
}

type itemOutcome int

const (
	outcomeImported itemOutcome = iota
	outcomeSkipped
	outcomeErrored
)

// ImportCategory runs the pipeline for one category. Item faults never abort
// the run; only category/author resolution failure is run-fatal.
func (imp *Importer) ImportCategory(ctx context.Context, cat CategoryImport) (domain.ImportRunResult, error) {
	result := domain.ImportRunResult{Category: cat.Slug, StartedAt: time.Now()}

	category, err := imp.repository.FindCategoryBySlug(ctx, cat.Slug)
	if err != nil {
		return result, fmt.Errorf("resolve category %s: %w", cat.Slug, err)
	}
	author, err := imp.repository.FindAuthorByName(ctx, imp.authorName)
	if err != nil {
		return result, fmt.Errorf("resolve author %s: %w", imp.authorName, err)
	}

	items := imp.collectItems(ctx, cat)
	filtered := make([]domain.FeedItem, 0, len(items))
	for _, item := range items {
		if ok, reason := filter.Check(item); !ok {
			imp.debug("item filtered", "url", item.Link, "reason", reason)
			continue
		}
		filtered = append(filtered, item)
	}

	maxArticles := cat.MaxArticles
	if maxArticles <= 0 {
		maxArticles = len(filtered)
	}

	imp.runItems(ctx, filtered, maxArticles, category, author, &result)

	result.FinishedAt = time.Now()
	imp.info("category run finished",
		"category", cat.Slug,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", result.Errors)
	return result, nil
}

// collectItems fetches every feed of the category; a failing feed contributes
// zero items and never aborts the run.
func (imp *Importer) collectItems(ctx context.Context, cat CategoryImport) []domain.FeedItem {
	var items []domain.FeedItem
	for _, feedURL := range cat.Feeds {
		fetched, err := imp.source.Fetch(ctx, feedURL)
		if err != nil {
			imp.warn("feed unavailable", "url", feedURL, "error", err)
			continue
		}
		items = append(items, fetched...)
	}
	return items
}

// runItems processes items with bounded parallelism. Dispatch follows feed
// order, and dispatch of a new item is held back while the already-running
// ones could still reach the success cap, so a run never imports more than
// maxArticles articles.
func (imp *Importer) runItems(
	ctx context.Context,
	items []domain.FeedItem,
	maxArticles int,
	category domain.CategoryRef,
	author domain.AuthorRef,
	result *domain.ImportRunResult,
) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		inFlight int
	)
	cond := sync.NewCond(&mu)
	sem := make(chan struct{}, imp.workers)

	for _, item := range items {
		mu.Lock()
		for result.Imported+inFlight >= maxArticles && inFlight > 0 {
			cond.Wait()
		}
		if result.Imported+inFlight >= maxArticles {
			mu.Unlock()
			break
		}
		inFlight++
		mu.Unlock()

		sem <- struct{}{}
		wg.Add(1)
		go func(item domain.FeedItem) {
			defer wg.Done()
			defer func() { <-sem }()

			id, outcome := imp.processItem(ctx, item, category, author)

			mu.Lock()
			inFlight--
			switch outcome {
			case outcomeImported:
				result.Imported++
				result.ArticleIDs = append(result.ArticleIDs, id)
			case outcomeSkipped:
				result.Skipped++
			case outcomeErrored:
				result.Errors++
			}
			cond.Broadcast()
			mu.Unlock()
		}(item)
	}

	wg.Wait()
}

func (imp *Importer) processItem(
	ctx context.Context,
	item domain.FeedItem,
	category domain.CategoryRef,
	author domain.AuthorRef,
) (string, itemOutcome) {
	// Cheap duplicate check before any extraction work. A failing lookup is
	// not trusted either way; the pre-persist confirmation decides.
	if dup, err := imp.isDuplicate(ctx, item.Link); err != nil {
		imp.warn("duplicate pre-check failed", "url", item.Link, "error", err)
	} else if dup {
		imp.debug("duplicate skipped before extraction", "url", item.Link)
		return "", outcomeSkipped
	}

	content := imp.extractor.Extract(ctx, item)
	if !content.Success {
		imp.warn("item failed extraction", "url", item.Link, "error", domain.ErrExtractionExhausted)
		return "", outcomeErrored
	}

	candidate := domain.NewCandidate(item, content)
	candidate.CategoryID = category.ID
	candidate.AuthorID = author.ID

	scored := images.Optimize(content.Images)
	candidate.Images = scored
	if best, ok := images.Best(scored); ok {
		candidate.BestImage = &best
	}
	candidate.Quality = quality.Assess(len(content.BodyText), len(scored), content.Strategy)

	if imp.rewriter != nil {
		rewritten, err := imp.rewriter.Rewrite(ctx, domain.RewriteRequest{
			SourceText:    content.BodyText,
			SourceURL:     candidate.SourceURL,
			OriginalTitle: item.Title,
			Category:      category.Name,
		})
		if err != nil {
			imp.warn("rewrite failed, keeping raw content", "url", item.Link, "error", err)
		} else {
			candidate.Rewritten = &rewritten
		}
	}

	// Re-check immediately before persistence to close the race window the
	// extraction latency opened.
	if dup, err := imp.isDuplicate(ctx, candidate.SourceURL); err != nil {
		imp.warn("duplicate confirmation failed", "url", item.Link, "error", err)
		return "", outcomeErrored
	} else if dup {
		imp.debug("duplicate skipped before persistence", "url", item.Link)
		return "", outcomeSkipped
	}

	id, err := imp.repository.Create(ctx, candidate)
	if err != nil {
		imp.warn("persist failed", "url", item.Link, "error", err)
		return "", outcomeErrored
	}

	imp.info("article imported",
		"url", candidate.SourceURL,
		"strategy", content.Strategy,
		"quality", candidate.Quality,
		"images", len(scored))
	return id, outcomeImported
}

func (imp *Importer) isDuplicate(ctx context.Context, sourceURL string) (bool, error) {
	refs, err := imp.repository.FindBySourceURL(ctx, sourceURL)
	if err != nil {
		return false, err
	}
	return len(refs) > 0, nil
}

func (imp *Importer) debug(msg string, args ...any) {
	if imp.logger != nil {
		imp.logger.Debug(msg, args...)
	}
}

func (imp *Importer) info(msg string, args ...any) {
	if imp.logger != nil {
		imp.logger.Info(msg, args...)
	}
}

func (imp *Importer) warn(msg string, args ...any) {
	if imp.logger != nil {
		imp.logger.Warn(msg, args...)
	}
}
